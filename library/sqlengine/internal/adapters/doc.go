// Package adapters provide database adapter implementations for the library SQL engine.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx.Pool, sql.DB (lib/pq or modernc sqlite), and sqlx.DB. All adapters provide equivalent
// functionality through the common DBAdapter interface, including explicit transactions,
// so the engine works with any supported connection type.
//
// The adapters handle the specifics of each database library while presenting a
// unified interface for query execution, result handling, and transaction control.
package adapters
