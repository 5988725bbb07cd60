package library

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookRepository gives access to persisted Books.
// Lookups of a single Book fail with ErrBookNotFound when it does not exist.
type BookRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	GetByAuthor(ctx context.Context, authorSubstring string) ([]Book, error)
	GetByTitle(ctx context.Context, titleSubstring string) ([]Book, error)
	GetAvailable(ctx context.Context) ([]Book, error)

	// GetWithLoans loads the Book together with all Loans referencing it.
	GetWithLoans(ctx context.Context, id uuid.UUID) (Book, error)

	// LockWithLoans is GetWithLoans that also locks the Book row until the surrounding Tx ends.
	// Stock changes of a concurrent lend or return wait for the lock.
	LockWithLoans(ctx context.Context, id uuid.UUID) (Book, error)

	// Create fails with ErrDuplicateISBN when the ISBN is taken.
	Create(ctx context.Context, book Book) error
	Update(ctx context.Context, book Book) error

	// Delete only removes a Book no Active loan references; otherwise it fails with ErrBookHasActiveLoans.
	Delete(ctx context.Context, id uuid.UUID) error
	ISBNExists(ctx context.Context, isbn string) (bool, error)

	// AdjustStock adds delta to the stock as one conditional write.
	// It fails with ErrNoStock if the result would be negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

// LoanRepository gives access to persisted Loans. Every Loan it returns carries its Book, if that still exists.
// Lookups of a single Loan fail with ErrLoanNotFound when it does not exist.
type LoanRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Loan, error)
	GetAll(ctx context.Context) ([]Loan, error)
	GetByBookID(ctx context.Context, bookID uuid.UUID) ([]Loan, error)
	GetByStudentName(ctx context.Context, studentNameSubstring string) ([]Loan, error)
	GetActive(ctx context.Context) ([]Loan, error)

	// GetOverdue returns Active loans lent before asOf minus maxLoanDays, oldest first.
	GetOverdue(ctx context.Context, asOf time.Time, maxLoanDays int) ([]Loan, error)
	HasActiveLoan(ctx context.Context, bookID uuid.UUID, studentName string) (bool, error)
	CountActiveByStudent(ctx context.Context, studentName string) (int, error)
	GetWithBook(ctx context.Context, id uuid.UUID) (Loan, error)

	// Create fails with ErrDuplicateActiveLoan when the student already holds an Active loan for the Book.
	Create(ctx context.Context, loan Loan) error
	Update(ctx context.Context, loan Loan) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByDateRange returns loans lent within [from, to], oldest first.
	GetByDateRange(ctx context.Context, from, to time.Time) ([]Loan, error)

	// MarkReturned flips an Active loan to Returned as one conditional write.
	// It fails with ErrAlreadyReturned if the loan is not Active anymore.
	MarkReturned(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Repositories exposes both repositories bound to the same connection or transaction.
type Repositories interface {
	Books() BookRepository
	Loans() LoanRepository
}

// UnitOfWork is the entry point to storage. Its repositories auto-commit every write; Begin opens an
// explicit transaction for multi-step workflows. Close releases all held connection resources.
type UnitOfWork interface {
	Repositories
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is an explicit transaction. Its repositories see and produce uncommitted state.
// Once committed or rolled back, Rollback is a no-op and Commit fails.
type Tx interface {
	Repositories
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
