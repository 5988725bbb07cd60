package postgreswrapper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/university-library-go/library/sqlengine"
	"github.com/AntonStoeckl/university-library-go/shell/config"
)

// Environment variables selecting the database under test.
const (
	EnvDSN         = "LIBRARY_TEST_POSTGRES_DSN"
	EnvAdapterType = "LIBRARY_TEST_ADAPTER_TYPE" // pgx (default), postgres or sqlx
)

// NewStore opens, migrates and empties the PostgreSQL store named by EnvDSN.
// The store is emptied again and closed when the test ends.
func NewStore(t testing.TB, options ...sqlengine.Option) sqlengine.Store {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	cfg := config.Default()
	cfg.DBDSN = dsn
	cfg.DBDriver = driverFromEnv(t)

	ctx := context.Background()

	store, err := config.OpenStore(ctx, cfg, options...)
	require.NoError(t, err, "error connecting to the test database")

	require.NoError(t, store.Migrate(ctx), "error in arranging test data")
	CleanUp(t, store)

	t.Cleanup(func() {
		CleanUp(t, store)
		_ = store.Close() // ignore error
	})

	return store
}

func driverFromEnv(t testing.TB) string {
	t.Helper()

	switch adapterType := strings.ToLower(os.Getenv(EnvAdapterType)); adapterType {
	case config.DriverPGX, "":
		return config.DriverPGX
	case config.DriverPostgres, config.DriverSQLX:
		return adapterType
	default:
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterType))
	}
}

// CleanUp deletes all loans and books.
func CleanUp(t testing.TB, store sqlengine.Store) {
	t.Helper()

	ctx := context.Background()

	loans, err := store.Loans().GetAll(ctx)
	require.NoError(t, err, "error cleaning up the loans table")

	for _, loan := range loans {
		require.NoError(t, store.Loans().Delete(ctx, loan.ID), "error cleaning up the loans table")
	}

	books, err := store.Books().GetAll(ctx)
	require.NoError(t, err, "error cleaning up the books table")

	for _, book := range books {
		require.NoError(t, store.Books().Delete(ctx, book.ID), "error cleaning up the books table")
	}
}
