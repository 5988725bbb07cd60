package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/sqlengine/internal/adapters"
)

const (
	operationListLoans    = "loans.list"
	operationCountLoans   = "loans.count"
	operationInsertLoan   = "loans.insert"
	operationUpdateLoan   = "loans.update"
	operationDeleteLoan   = "loans.delete"
	operationMarkReturned = "loans.mark_returned"
	hoursPerDay           = 24
)

type loanRepository struct {
	exec executor
}

var (
	loansTable = goqu.T(tableLoans)
	booksTable = goqu.T(tableBooks)
)

func (r loanRepository) GetByID(ctx context.Context, id uuid.UUID) (library.Loan, error) {
	return r.GetWithBook(ctx, id)
}

func (r loanRepository) GetAll(ctx context.Context) ([]library.Loan, error) {
	return r.list(ctx, newestFirst)
}

func (r loanRepository) GetByBookID(ctx context.Context, bookID uuid.UUID) ([]library.Loan, error) {
	return r.list(ctx, newestFirst, loansTable.Col(colBookID).Eq(bookID.String()))
}

func (r loanRepository) GetByStudentName(ctx context.Context, studentNameSubstring string) ([]library.Loan, error) {
	return r.list(ctx, newestFirst, containsIgnoringCase(loansTable.Col(colStudentName), studentNameSubstring))
}

func (r loanRepository) GetActive(ctx context.Context) ([]library.Loan, error) {
	return r.list(ctx, newestFirst, isActive())
}

func (r loanRepository) GetOverdue(ctx context.Context, asOf time.Time, maxLoanDays int) ([]library.Loan, error) {
	lentBefore := asOf.Add(-time.Duration(maxLoanDays) * hoursPerDay * time.Hour)

	return r.list(ctx, oldestFirst, isActive(), loansTable.Col(colLoanDate).Lt(timestampArg(lentBefore)))
}

func (r loanRepository) HasActiveLoan(ctx context.Context, bookID uuid.UUID, studentName string) (bool, error) {
	count, err := r.count(ctx,
		goqu.C(colBookID).Eq(bookID.String()),
		goqu.C(colStudentName).Eq(studentName),
		goqu.C(colStatus).Eq(library.LoanStatusActive.String()),
	)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r loanRepository) CountActiveByStudent(ctx context.Context, studentName string) (int, error) {
	count, err := r.count(ctx,
		goqu.C(colStudentName).Eq(studentName),
		goqu.C(colStatus).Eq(library.LoanStatusActive.String()),
	)

	return int(count), err
}

func (r loanRepository) GetWithBook(ctx context.Context, id uuid.UUID) (library.Loan, error) {
	found, err := r.list(ctx, newestFirst, loansTable.Col(colID).Eq(id.String()))
	if err != nil {
		return library.Loan{}, err
	}

	if len(found) == 0 {
		return library.Loan{}, library.ErrLoanNotFound
	}

	return found[0], nil
}

func (r loanRepository) Create(ctx context.Context, loan library.Loan) error {
	ds := r.exec.store.builder.
		Insert(tableLoans).
		Prepared(true).
		Rows(goqu.Record{
			colID:          loan.ID.String(),
			colBookID:      loan.BookID.String(),
			colStudentName: loan.StudentName,
			colLoanDate:    timestampArg(loan.LoanDate),
			colReturnDate:  returnDateArg(loan.ReturnDate),
			colStatus:      loan.Status.String(),
			colCreatedAt:   timestampArg(loan.CreatedAt),
		})

	if _, err := r.exec.exec(ctx, operationInsertLoan, ds); err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			return errors.Join(library.ErrDuplicateActiveLoan, err)
		}

		return err
	}

	return nil
}

func (r loanRepository) Update(ctx context.Context, loan library.Loan) error {
	ds := r.exec.store.builder.
		Update(tableLoans).
		Prepared(true).
		Set(goqu.Record{
			colStudentName: loan.StudentName,
			colLoanDate:    timestampArg(loan.LoanDate),
			colReturnDate:  returnDateArg(loan.ReturnDate),
			colStatus:      loan.Status.String(),
		}).
		Where(goqu.C(colID).Eq(loan.ID.String()))

	rowsAffected, err := r.exec.exec(ctx, operationUpdateLoan, ds)
	if err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			return errors.Join(library.ErrDuplicateActiveLoan, err)
		}

		return err
	}

	if rowsAffected == 0 {
		return library.ErrLoanNotFound
	}

	return nil
}

func (r loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ds := r.exec.store.builder.
		Delete(tableLoans).
		Prepared(true).
		Where(goqu.C(colID).Eq(id.String()))

	rowsAffected, err := r.exec.exec(ctx, operationDeleteLoan, ds)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return library.ErrLoanNotFound
	}

	return nil
}

func (r loanRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]library.Loan, error) {
	return r.list(ctx, oldestFirst,
		loansTable.Col(colLoanDate).Gte(timestampArg(from)),
		loansTable.Col(colLoanDate).Lte(timestampArg(to)),
	)
}

func (r loanRepository) MarkReturned(ctx context.Context, id uuid.UUID, at time.Time) error {
	ds := r.exec.store.builder.
		Update(tableLoans).
		Prepared(true).
		Set(goqu.Record{
			colStatus:     library.LoanStatusReturned.String(),
			colReturnDate: timestampArg(at),
		}).
		Where(
			goqu.C(colID).Eq(id.String()),
			goqu.C(colStatus).Eq(library.LoanStatusActive.String()),
		)

	rowsAffected, err := r.exec.exec(ctx, operationMarkReturned, ds)
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	count, err := r.count(ctx, goqu.C(colID).Eq(id.String()))
	if err != nil {
		return err
	}

	if count == 0 {
		return library.ErrLoanNotFound
	}

	return library.ErrAlreadyReturned
}

type loanOrder int

const (
	newestFirst loanOrder = iota
	oldestFirst
)

func isActive() exp.Expression {
	return loansTable.Col(colStatus).Eq(library.LoanStatusActive.String())
}

// list selects loans joined with their book, if it still exists.
func (r loanRepository) list(ctx context.Context, order loanOrder, where ...exp.Expression) ([]library.Loan, error) {
	orderBy := []exp.OrderedExpression{loansTable.Col(colLoanDate).Desc(), loansTable.Col(colID).Asc()}
	if order == oldestFirst {
		orderBy = []exp.OrderedExpression{loansTable.Col(colLoanDate).Asc(), loansTable.Col(colID).Asc()}
	}

	ds := r.exec.store.builder.
		From(loansTable).
		Prepared(true).
		LeftJoin(booksTable, goqu.On(booksTable.Col(colID).Eq(loansTable.Col(colBookID)))).
		Select(
			loansTable.Col(colID), loansTable.Col(colBookID), loansTable.Col(colStudentName), loansTable.Col(colLoanDate),
			loansTable.Col(colReturnDate), loansTable.Col(colStatus), loansTable.Col(colCreatedAt),
			booksTable.Col(colID), booksTable.Col(colTitle), booksTable.Col(colAuthor), booksTable.Col(colISBN),
			booksTable.Col(colStock), booksTable.Col(colCreatedAt),
		).
		Where(where...).
		Order(orderBy...)

	found := make([]library.Loan, 0)

	err := r.exec.query(ctx, operationListLoans, ds, func(rows adapters.DBRows) error {
		loan, err := scanLoanWithBook(rows)
		if err != nil {
			return err
		}

		found = append(found, loan)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

func (r loanRepository) count(ctx context.Context, where ...exp.Expression) (int64, error) {
	ds := r.exec.store.builder.
		From(tableLoans).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(where...)

	var count int64

	err := r.exec.query(ctx, operationCountLoans, ds, func(rows adapters.DBRows) error {
		return rows.Scan(&count)
	})

	return count, err
}

func scanLoanWithBook(rows adapters.DBRows) (library.Loan, error) {
	var (
		loan          library.Loan
		status        string
		loanDate      timestamp
		returnDate    nullableTimestamp
		loanCreatedAt timestamp
		bookID        uuid.NullUUID
		title         sql.NullString
		author        sql.NullString
		isbn          sql.NullString
		stock         sql.NullInt64
		bookCreatedAt nullableTimestamp
	)

	err := rows.Scan(
		&loan.ID, &loan.BookID, &loan.StudentName, &loanDate, &returnDate, &status, &loanCreatedAt,
		&bookID, &title, &author, &isbn, &stock, &bookCreatedAt,
	)
	if err != nil {
		return library.Loan{}, err
	}

	if loan.Status, err = library.ParseLoanStatus(status); err != nil {
		return library.Loan{}, err
	}

	loan.LoanDate = loanDate.Time
	loan.ReturnDate = returnDate.Ptr()
	loan.CreatedAt = loanCreatedAt.Time

	if bookID.Valid {
		loan.Book = &library.Book{
			ID:        bookID.UUID,
			Title:     title.String,
			Author:    author.String,
			ISBN:      isbn.String,
			Stock:     int(stock.Int64),
			CreatedAt: bookCreatedAt.Time,
		}
	}

	return loan, nil
}

func returnDateArg(returnDate *time.Time) any {
	if returnDate == nil {
		return nil
	}

	return timestampArg(*returnDate)
}
