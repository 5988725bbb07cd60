package books

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/shell"
)

// Delete removes a Book that has no Active loans.
// The Book row stays locked from the check to the commit, like the write-off in package decommission,
// but Delete reports nothing and returns storage failures as they are.
func (s Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := shell.ObserveCommand(ctx, s.observer, commandTypeDeleteBook, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, library.RunInTx(ctx, s.uow, func(ctx context.Context, tx library.Tx) error {
			book, err := tx.Books().LockWithLoans(ctx, id)
			if err != nil {
				return err
			}

			if book.HasActiveLoans() {
				return library.ErrBookHasActiveLoans
			}

			return tx.Books().Delete(ctx, id)
		})
	})

	return err
}
