// Package sqlengine provides the SQL persistence engine for the library core.
//
// It implements library.UnitOfWork with goqu-built, prepared SQL on top of one of:
//   - a pgx pool (PostgreSQL)
//   - a *sql.DB opened with lib/pq (PostgreSQL) or modernc.org/sqlite (SQLite)
//   - a *sqlx.DB opened with either driver
//
// Paired writes are safe under concurrency without elevated isolation levels:
// stock changes are conditional updates (stock + delta >= 0), returns only flip Active loans,
// and a partial unique index forbids two Active loans of one student for the same book.
// Book deletion locks the Book row first (SELECT ... FOR UPDATE on PostgreSQL, a no-op on SQLite,
// which serializes writers anyway), and the DELETE itself only matches a Book no Active loan references.
// Storage errors are classified: unique-constraint violations surface as domain errors,
// serialization failures, deadlocks, and busy databases as library.ErrConcurrencyConflict.
//
// Usage:
//
//	store, err := sqlengine.NewStoreFromPGXPool(pool, sqlengine.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//
//	if err := store.Migrate(ctx); err != nil {
//		// handle error
//	}
//
//	book, err := store.Books().GetByISBN(ctx, "978-1-098-10013-1")
package sqlengine
