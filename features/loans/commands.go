package loans

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/shell"
)

// CreateLoanRequest names the Book to lend and the borrowing student.
type CreateLoanRequest struct {
	BookID      uuid.UUID `json:"bookId"`
	StudentName string    `json:"studentName"`
}

// Create lends one copy of the Book to the student.
//
// It fails with library.ErrInvalidLoanData, library.ErrBookNotFound, library.ErrNoStock or
// library.ErrDuplicateActiveLoan, checked in this order. The stock decrement and the new Loan are
// committed together.
func (s Service) Create(ctx context.Context, req CreateLoanRequest) (LoanView, error) {
	return shell.ObserveCommand(ctx, s.observer, commandTypeCreateLoan, func(ctx context.Context) (LoanView, error) {
		studentName := strings.TrimSpace(req.StudentName)

		if err := library.ValidateStudentName(studentName); err != nil {
			return LoanView{}, err
		}

		var created library.Loan

		err := s.retry(ctx, commandTypeCreateLoan, func(ctx context.Context, tx library.Tx) error {
			book, err := tx.Books().GetByID(ctx, req.BookID)
			if err != nil {
				return err
			}

			if !book.CanBeBorrowed() {
				return library.ErrNoStock
			}

			hasActive, err := tx.Loans().HasActiveLoan(ctx, book.ID, studentName)
			if err != nil {
				return err
			}

			if hasActive {
				return library.ErrDuplicateActiveLoan
			}

			if err = tx.Books().AdjustStock(ctx, book.ID, -1); err != nil {
				return err
			}

			loan, err := library.NewLoan(book.ID, studentName, s.clock.Now())
			if err != nil {
				return err
			}

			if err = tx.Loans().Create(ctx, loan); err != nil {
				return err
			}

			if err = book.DecreaseStock(); err != nil {
				return err
			}

			loan.Book = &book
			created = loan

			return nil
		})
		if err != nil {
			return LoanView{}, err
		}

		return ToLoanView(created, s.clock.Now()), nil
	})
}

// Return takes the lent copy back. It fails with library.ErrLoanNotFound or library.ErrAlreadyReturned.
// The status change and the stock increment are committed together.
func (s Service) Return(ctx context.Context, loanID uuid.UUID) (LoanView, error) {
	return shell.ObserveCommand(ctx, s.observer, commandTypeReturnLoan, func(ctx context.Context) (LoanView, error) {
		var returned library.Loan

		err := s.retry(ctx, commandTypeReturnLoan, func(ctx context.Context, tx library.Tx) error {
			loan, err := tx.Loans().GetByID(ctx, loanID)
			if err != nil {
				return err
			}

			if err = loan.Return(s.clock.Now()); err != nil {
				return err
			}

			if err = tx.Loans().MarkReturned(ctx, loan.ID, *loan.ReturnDate); err != nil {
				return err
			}

			if err = tx.Books().AdjustStock(ctx, loan.BookID, 1); err != nil {
				return err
			}

			if loan.Book != nil {
				loan.Book.IncreaseStock()
			}

			returned = loan

			return nil
		})
		if err != nil {
			return LoanView{}, err
		}

		return ToLoanView(returned, s.clock.Now()), nil
	})
}

// Delete removes a Loan record. Deleting an Active loan puts its copy back on the shelf in the same
// transaction. It fails with library.ErrLoanNotFound.
func (s Service) Delete(ctx context.Context, loanID uuid.UUID) error {
	_, err := shell.ObserveCommand(ctx, s.observer, commandTypeDeleteLoan, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.retry(ctx, commandTypeDeleteLoan, func(ctx context.Context, tx library.Tx) error {
			loan, err := tx.Loans().GetByID(ctx, loanID)
			if err != nil {
				return err
			}

			if loan.IsActive() {
				if err = tx.Books().AdjustStock(ctx, loan.BookID, 1); err != nil {
					return err
				}
			}

			return tx.Loans().Delete(ctx, loan.ID)
		})
	})

	return err
}

// retry runs fn in its own transaction, once per attempt.
func (s Service) retry(ctx context.Context, commandType string, fn library.TxFunc) error {
	return shell.RetryCommand(ctx, s.observer, commandType, func(ctx context.Context) error {
		return library.RunInTx(ctx, s.uow, fn)
	}, s.retryOptions...)
}
