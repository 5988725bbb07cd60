package sqlengine

import (
	"context"
	"errors"
	"fmt"
)

const (
	tableBooks = "books"
	tableLoans = "loans"

	colID          = "id"
	colTitle       = "title"
	colAuthor      = "author"
	colISBN        = "isbn"
	colStock       = "stock"
	colCreatedAt   = "created_at"
	colBookID      = "book_id"
	colStudentName = "student_name"
	colLoanDate    = "loan_date"
	colReturnDate  = "return_date"
	colStatus      = "status"

	operationMigrate = "migrate"
)

// Loans are not tied to books by a foreign key: a written-off book leaves its returned loans behind as history.
// Deleting a book with Active loans is refused by the domain services.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		author VARCHAR(150) NOT NULL,
		isbn VARCHAR(20) NOT NULL,
		stock INTEGER NOT NULL CHECK (stock >= 0),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS books_isbn_key ON books (isbn)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id UUID PRIMARY KEY,
		book_id UUID NOT NULL,
		student_name VARCHAR(150) NOT NULL,
		loan_date TIMESTAMPTZ NOT NULL,
		return_date TIMESTAMPTZ NULL,
		status VARCHAR(20) NOT NULL CHECK (status IN ('Active', 'Returned')),
		created_at TIMESTAMPTZ NOT NULL,
		CHECK ((status = 'Returned') = (return_date IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS loans_book_id_idx ON loans (book_id)`,
	`CREATE INDEX IF NOT EXISTS loans_student_name_idx ON loans (student_name)`,
	`CREATE INDEX IF NOT EXISTS loans_status_idx ON loans (status)`,
	`CREATE INDEX IF NOT EXISTS loans_loan_date_idx ON loans (loan_date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS loans_one_active_per_student_and_book
		ON loans (book_id, student_name) WHERE status = 'Active'`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL CHECK (length(title) <= 200),
		author TEXT NOT NULL CHECK (length(author) <= 150),
		isbn TEXT NOT NULL CHECK (length(isbn) <= 20),
		stock INTEGER NOT NULL CHECK (stock >= 0),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS books_isbn_key ON books (isbn)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		book_id TEXT NOT NULL,
		student_name TEXT NOT NULL CHECK (length(student_name) <= 150),
		loan_date TIMESTAMP NOT NULL,
		return_date TIMESTAMP NULL,
		status TEXT NOT NULL CHECK (status IN ('Active', 'Returned')),
		created_at TIMESTAMP NOT NULL,
		CHECK ((status = 'Returned') = (return_date IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS loans_book_id_idx ON loans (book_id)`,
	`CREATE INDEX IF NOT EXISTS loans_student_name_idx ON loans (student_name)`,
	`CREATE INDEX IF NOT EXISTS loans_status_idx ON loans (status)`,
	`CREATE INDEX IF NOT EXISTS loans_loan_date_idx ON loans (loan_date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS loans_one_active_per_student_and_book
		ON loans (book_id, student_name) WHERE status = 'Active'`,
}

// Migrate creates the tables and indexes if they do not exist yet. It is safe to run repeatedly.
func (s Store) Migrate(ctx context.Context) error {
	statements := postgresSchema
	if s.dialect == DialectSQLite {
		statements = sqliteSchema
	}

	exec := s.executorFor(s.db)

	for i, statement := range statements {
		if _, err := exec.execSQL(ctx, operationMigrate, statement); err != nil {
			return errors.Join(ErrMigrationFailed, fmt.Errorf("statement %d: %w", i+1, err))
		}
	}

	s.logOperation(ctx, operationMigrate, "statements", len(statements))

	return nil
}
