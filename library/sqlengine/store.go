package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/sqlengine/internal/adapters"
)

// Dialect selects the SQL flavor the engine generates.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// Store is the SQL implementation of library.UnitOfWork.
type Store struct {
	db               adapters.DBAdapter
	dialect          Dialect
	builder          goqu.DialectWrapper
	logger           library.Logger
	contextualLogger library.ContextualLogger
	metricsCollector library.MetricsCollector
	tracingCollector library.TracingCollector
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
// The dialect is always PostgreSQL.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), DialectPostgres, options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
// The dialect defaults to PostgreSQL; use WithDialect for SQLite.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), DialectPostgres, options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
// The dialect defaults to PostgreSQL; use WithDialect for SQLite.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), DialectPostgres, options...)
}

// NewStoreFromSQLite creates a new Store on a sql.DB opened with the modernc "sqlite" driver.
func NewStoreFromSQLite(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), DialectSQLite, options...)
}

func newStore(db adapters.DBAdapter, dialect Dialect, options ...Option) (Store, error) {
	s := Store{
		db:      db,
		dialect: dialect,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	s.builder = goqu.Dialect(string(s.dialect))

	return s, nil
}

// Dialect returns the SQL flavor of this Store.
func (s Store) Dialect() Dialect {
	return s.dialect
}

// Books returns an auto-committing BookRepository.
func (s Store) Books() library.BookRepository {
	return bookRepository{exec: s.executorFor(s.db)}
}

// Loans returns an auto-committing LoanRepository.
func (s Store) Loans() library.LoanRepository {
	return loanRepository{exec: s.executorFor(s.db)}
}

// Begin opens an explicit transaction.
func (s Store) Begin(ctx context.Context) (library.Tx, error) {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		s.logError(ctx, logMsgBeginTxFailed, err)
		return nil, errors.Join(ErrBeginTxFailed, classifyDBError(err))
	}

	s.logQueryWithDuration(ctx, sqlBegin, operationBegin, time.Since(start))

	return &storeTx{tx: tx, exec: s.executorFor(tx)}, nil
}

// Ping verifies that the database is reachable.
func (s Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s Store) Close() error {
	return s.db.Close()
}

func (s Store) executorFor(q adapters.Querier) executor {
	return executor{q: q, store: s}
}

var _ library.UnitOfWork = Store{}
