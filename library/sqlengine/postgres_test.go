package sqlengine_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/sqlengine"
	"github.com/AntonStoeckl/university-library-go/testutil/postgreswrapper"
	"github.com/AntonStoeckl/university-library-go/testutil/sqlitewrapper"
)

func Test_Postgres_Store_ShouldUsePostgresDialect(t *testing.T) {
	// arrange
	store := postgreswrapper.NewStore(t)

	// act
	dialect := store.Dialect()

	// assert
	assert.Equal(t, sqlengine.DialectPostgres, dialect)
}

func Test_Postgres_BookRepository_ShouldRoundTripAndRejectDuplicateISBN(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := postgreswrapper.NewStore(t)
	book := sqlitewrapper.GivenBook(t, store, "Clean Code", "isbn-1", 2)
	duplicate, err := library.NewBook("Other", "Someone", "isbn-1", 1, sqlitewrapper.FixedTime)
	require.NoError(t, err, "error in arranging test data")

	// act
	found, getErr := store.Books().GetByID(ctx, book.ID)
	createErr := store.Books().Create(ctx, duplicate)

	// assert
	assert.NoError(t, getErr)
	assert.True(t, book.CreatedAt.Equal(found.CreatedAt), "Should round-trip the creation timestamp")
	assert.ErrorIs(t, createErr, library.ErrDuplicateISBN)
}

func Test_Postgres_BookRepository_AdjustStock_ShouldNeverGoBelowZero_UnderConcurrency(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := postgreswrapper.NewStore(t)
	book := sqlitewrapper.GivenBook(t, store, "Clean Code", "isbn-1", 1)

	const workers = 8
	var succeeded, rejected atomic.Int32
	var wg sync.WaitGroup

	// act
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			switch err := store.Books().AdjustStock(ctx, book.ID, -1); {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, library.ErrNoStock):
				rejected.Add(1)
			default:
				assert.NoError(t, err, "Should only fail with ErrNoStock")
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), succeeded.Load(), "Should lend the last copy exactly once")
	assert.Equal(t, int32(workers-1), rejected.Load())
	found, err := store.Books().GetByID(ctx, book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, found.Stock)
}

func Test_Postgres_LoanRepository_ShouldRejectSecondActiveLoanOfSameStudent(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := postgreswrapper.NewStore(t)
	book := sqlitewrapper.GivenBook(t, store, "Clean Code", "isbn-1", 2)
	sqlitewrapper.GivenActiveLoan(t, store, book.ID, "Alice", sqlitewrapper.FixedTime)
	second, err := library.NewLoan(book.ID, "Alice", sqlitewrapper.FixedTime)
	require.NoError(t, err, "error in arranging test data")

	// act
	err = store.Loans().Create(ctx, second)

	// assert
	assert.ErrorIs(t, err, library.ErrDuplicateActiveLoan)
}

func Test_Postgres_BookRepository_LockWithLoans_ShouldMakeAConcurrentLendFail_WhenTheBookIsDeleted(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := postgreswrapper.NewStore(t)
	book := sqlitewrapper.GivenBook(t, store, "Clean Code", "isbn-1", 1)
	writeOff, err := store.Begin(ctx)
	require.NoError(t, err, "error in arranging test data")
	defer func() { _ = writeOff.Rollback(ctx) }() // ignore error
	_, err = writeOff.Books().LockWithLoans(ctx, book.ID)
	require.NoError(t, err, "error in arranging test data")

	// act
	lendErr := make(chan error, 1)
	go func() {
		lendErr <- store.Books().AdjustStock(ctx, book.ID, -1)
	}()
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, writeOff.Books().Delete(ctx, book.ID))
	require.NoError(t, writeOff.Commit(ctx))

	// assert
	assert.ErrorIs(t, <-lendErr, library.ErrBookNotFound, "Should not lend a copy of a deleted book")
}

func Test_Postgres_BookRepository_LockWithLoans_ShouldSeeALoanCreatedByTheLockHolder(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := postgreswrapper.NewStore(t)
	book := sqlitewrapper.GivenBook(t, store, "Clean Code", "isbn-1", 1)
	loan, err := library.NewLoan(book.ID, "Alice", sqlitewrapper.FixedTime)
	require.NoError(t, err, "error in arranging test data")
	lend, err := store.Begin(ctx)
	require.NoError(t, err, "error in arranging test data")
	defer func() { _ = lend.Rollback(ctx) }() // ignore error
	require.NoError(t, lend.Books().AdjustStock(ctx, book.ID, -1), "error in arranging test data")

	// act
	locked := make(chan library.Book, 1)
	go func() {
		var found library.Book
		txErr := library.RunInTx(ctx, store, func(ctx context.Context, tx library.Tx) error {
			var err error
			found, err = tx.Books().LockWithLoans(ctx, book.ID)

			return err
		})
		assert.NoError(t, txErr)
		locked <- found
	}()
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, lend.Loans().Create(ctx, loan))
	require.NoError(t, lend.Commit(ctx))

	// assert
	found := <-locked
	assert.True(t, found.HasActiveLoans(), "Should wait for the lend and see its loan")
	assert.Equal(t, 0, found.Stock)
}
