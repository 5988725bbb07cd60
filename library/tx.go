package library

import (
	"context"
	"errors"
)

// TxFunc is the body of a transaction.
type TxFunc func(ctx context.Context, tx Tx) error

// RunInTx begins a transaction, runs fn and commits if fn succeeds.
// On error or panic the transaction is rolled back; a panic is re-raised afterward.
func RunInTx(ctx context.Context, uow UnitOfWork, fn TxFunc) (err error) {
	tx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}

		if err != nil {
			if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
				err = errors.Join(err, rollbackErr)
			}
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
