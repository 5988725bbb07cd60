package sqlitewrapper

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/sqlengine"
)

const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// FixedTime is the clock reading used by fixtures unless a test needs a different one.
var FixedTime = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

// NewStore opens a fresh, migrated SQLite store.
// The pool is limited to one connection, so a test must not nest queries outside a transaction.
func NewStore(t testing.TB, options ...sqlengine.Option) sqlengine.Store {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "library.db")+dsnPragmas)
	require.NoError(t, err, "error in arranging test data")

	db.SetMaxOpenConns(1)

	store, err := sqlengine.NewStoreFromSQLite(db, options...)
	require.NoError(t, err, "error in arranging test data")

	require.NoError(t, store.Migrate(context.Background()), "error in arranging test data")

	t.Cleanup(func() {
		_ = store.Close() // ignore error
	})

	return store
}

// FixedClock returns a clock that always reads at.
func FixedClock(at time.Time) library.Clock {
	return library.ClockFunc(func() time.Time { return at })
}

// GivenBook persists a valid Book with the given ISBN and stock.
func GivenBook(t testing.TB, uow library.UnitOfWork, title, isbn string, stock int) library.Book {
	t.Helper()

	book, err := library.NewBook(title, "Vlad Khononov", isbn, stock, FixedTime)
	require.NoError(t, err, "error in arranging test data")

	require.NoError(t, uow.Books().Create(context.Background(), book), "error in arranging test data")

	return book
}

// GivenActiveLoan persists an Active loan without touching the Book's stock.
func GivenActiveLoan(t testing.TB, uow library.UnitOfWork, bookID uuid.UUID, studentName string, lentAt time.Time) library.Loan {
	t.Helper()

	loan, err := library.NewLoan(bookID, studentName, lentAt)
	require.NoError(t, err, "error in arranging test data")

	require.NoError(t, uow.Loans().Create(context.Background(), loan), "error in arranging test data")

	return loan
}

// GivenReturnedLoan persists a loan that was returned at returnedAt.
func GivenReturnedLoan(
	t testing.TB,
	uow library.UnitOfWork,
	bookID uuid.UUID,
	studentName string,
	lentAt time.Time,
	returnedAt time.Time,
) library.Loan {
	t.Helper()

	loan, err := library.NewLoan(bookID, studentName, lentAt)
	require.NoError(t, err, "error in arranging test data")

	require.NoError(t, loan.Return(returnedAt), "error in arranging test data")
	require.NoError(t, uow.Loans().Create(context.Background(), loan), "error in arranging test data")

	return loan
}
