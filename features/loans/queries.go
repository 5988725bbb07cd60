package loans

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/shell"
)

// GetByID fails with library.ErrLoanNotFound if the Loan does not exist.
func (s Service) GetByID(ctx context.Context, id uuid.UUID) (LoanView, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeGetLoan, func(ctx context.Context) (LoanView, error) {
		loan, err := s.uow.Loans().GetWithBook(ctx, id)
		if err != nil {
			return LoanView{}, err
		}

		return ToLoanView(loan, s.clock.Now()), nil
	})
}

// GetAll lists every Loan, newest first.
func (s Service) GetAll(ctx context.Context) ([]LoanView, error) {
	return s.list(ctx, queryTypeGetAllLoans, s.uow.Loans().GetAll)
}

// GetByBookID lists the loans of one Book, newest first.
func (s Service) GetByBookID(ctx context.Context, bookID uuid.UUID) ([]LoanView, error) {
	return s.list(ctx, queryTypeGetLoansByBook, func(ctx context.Context) ([]library.Loan, error) {
		return s.uow.Loans().GetByBookID(ctx, bookID)
	})
}

// GetByStudentName lists loans whose student name contains the substring, ignoring case. Newest first.
func (s Service) GetByStudentName(ctx context.Context, studentName string) ([]LoanView, error) {
	return s.list(ctx, queryTypeGetLoansByStudent, func(ctx context.Context) ([]library.Loan, error) {
		return s.uow.Loans().GetByStudentName(ctx, studentName)
	})
}

// GetActive lists the loans not yet returned, newest first.
func (s Service) GetActive(ctx context.Context) ([]LoanView, error) {
	return s.list(ctx, queryTypeGetActiveLoans, s.uow.Loans().GetActive)
}

// GetOverdue lists the overdue loans as of now, oldest first.
func (s Service) GetOverdue(ctx context.Context) ([]LoanView, error) {
	return s.list(ctx, queryTypeGetOverdueLoans, func(ctx context.Context) ([]library.Loan, error) {
		return s.uow.Loans().GetOverdue(ctx, s.clock.Now(), library.MaxLoanDays)
	})
}

// GetByDateRange lists loans lent within [from, to], oldest first.
// It fails with library.ErrInvalidDateRange if from lies after to.
func (s Service) GetByDateRange(ctx context.Context, from, to time.Time) ([]LoanView, error) {
	return s.list(ctx, queryTypeGetLoansByDateRange, func(ctx context.Context) ([]library.Loan, error) {
		if from.After(to) {
			return nil, library.ErrInvalidDateRange
		}

		return s.uow.Loans().GetByDateRange(ctx, from, to)
	})
}

// CountActiveByStudent counts the Active loans of exactly this student.
func (s Service) CountActiveByStudent(ctx context.Context, studentName string) (int, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeCountActiveByStudent, func(ctx context.Context) (int, error) {
		return s.uow.Loans().CountActiveByStudent(ctx, studentName)
	})
}

// CanBorrow reports whether the Book exists and has a copy on the shelf.
func (s Service) CanBorrow(ctx context.Context, bookID uuid.UUID) (bool, error) {
	return shell.ObserveQuery(ctx, s.observer, queryTypeCanBorrow, func(ctx context.Context) (bool, error) {
		book, err := s.uow.Books().GetByID(ctx, bookID)
		if errors.Is(err, library.ErrBookNotFound) {
			return false, nil
		}

		if err != nil {
			return false, err
		}

		return book.CanBeBorrowed(), nil
	})
}

func (s Service) list(
	ctx context.Context,
	queryType string,
	load func(ctx context.Context) ([]library.Loan, error),
) ([]LoanView, error) {
	return shell.ObserveQuery(ctx, s.observer, queryType, func(ctx context.Context) ([]LoanView, error) {
		loans, err := load(ctx)
		if err != nil {
			return nil, err
		}

		return toLoanViews(loans, s.clock.Now()), nil
	})
}
