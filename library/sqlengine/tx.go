package sqlengine

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/sqlengine/internal/adapters"
)

// storeTx is an open transaction. Its repositories run all statements inside it.
type storeTx struct {
	tx   adapters.TxAdapter
	exec executor
	done bool
}

func (t *storeTx) Books() library.BookRepository {
	return bookRepository{exec: t.exec}
}

func (t *storeTx) Loans() library.LoanRepository {
	return loanRepository{exec: t.exec}
}

// Commit commits the transaction. A second Commit, or a Commit after Rollback, returns ErrTxDone.
func (t *storeTx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}

	t.done = true
	store := t.exec.store

	start := time.Now()
	err := t.tx.Commit(ctx)
	store.logQueryWithDuration(ctx, sqlCommit, operationCommit, time.Since(start))

	if err != nil {
		classified := classifyDBError(err)
		errorType := errorTypeOf(err)

		store.logError(ctx, logMsgCommitTxFailed, err, logAttrOperation, operationCommit)
		store.recordErrorMetrics(ctx, operationCommit, errorType)

		return errors.Join(ErrCommitTxFailed, classified)
	}

	return nil
}

// Rollback aborts the transaction. It is a no-op once the transaction is done.
func (t *storeTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}

	t.done = true
	store := t.exec.store

	start := time.Now()
	err := t.tx.Rollback(ctx)
	store.logQueryWithDuration(ctx, sqlRollback, operationRollback, time.Since(start))

	if err != nil {
		store.logError(ctx, logMsgRollbackTxFailed, err, logAttrOperation, operationRollback)
		return err
	}

	return nil
}

var _ library.Tx = (*storeTx)(nil)
