package sqlengine

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/AntonStoeckl/university-library-go/library"
)

var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrUnsupportedDialect    = errors.New("unsupported sql dialect")
	ErrBuildingQueryFailed   = errors.New("building sql query failed")
	ErrQueryFailed           = errors.New("database query failed")
	ErrExecFailed            = errors.New("database statement failed")
	ErrScanningRowFailed     = errors.New("scanning database row failed")
	ErrRowsAffectedFailed    = errors.New("getting rows affected failed")
	ErrBeginTxFailed         = errors.New("beginning transaction failed")
	ErrCommitTxFailed        = errors.New("committing transaction failed")
	ErrTxDone                = errors.New("transaction has already been committed or rolled back")
	ErrMigrationFailed       = errors.New("schema migration failed")

	// ErrUniqueViolation marks a write rejected by a unique constraint or index.
	ErrUniqueViolation = errors.New("unique constraint violated")
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	sqliteUniqueMessage    = "UNIQUE constraint failed"
)

// classifyDBError joins driver errors with ErrUniqueViolation or library.ErrConcurrencyConflict when they match.
func classifyDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case isUniqueViolation(err):
		return errors.Join(ErrUniqueViolation, err)
	case isConcurrencyConflict(err):
		return errors.Join(library.ErrConcurrencyConflict, err)
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	if code, ok := postgresErrorCode(err); ok {
		return code == pgUniqueViolation
	}

	if code, ok := sqliteErrorCode(err); ok {
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}

		// without extended result codes only the message tells a unique violation apart
		return code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), sqliteUniqueMessage)
	}

	return false
}

func isConcurrencyConflict(err error) bool {
	if code, ok := postgresErrorCode(err); ok {
		return code == pgSerializationFailure || code == pgDeadlockDetected || code == pgLockNotAvailable
	}

	if code, ok := sqliteErrorCode(err); ok {
		primary := code & 0xff
		return primary == sqlite3.SQLITE_BUSY || primary == sqlite3.SQLITE_LOCKED
	}

	return false
}

// postgresErrorCode extracts the SQLSTATE from pgx and lib/pq errors.
func postgresErrorCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}

	return "", false
}

// sqliteErrorCode extracts the extended result code from modernc sqlite errors.
func sqliteErrorCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}

	return 0, false
}
