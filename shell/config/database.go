package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/university-library-go/library/sqlengine"
)

// OpenStore opens the pool selected by cfg.DBDriver, pings it and wraps it in a storage engine.
// Closing the Store closes the pool.
func OpenStore(ctx context.Context, cfg Config, options ...sqlengine.Option) (sqlengine.Store, error) {
	switch cfg.DBDriver {
	case DriverPGX:
		pool, err := NewPGXPool(ctx, cfg)
		if err != nil {
			return sqlengine.Store{}, err
		}

		return sqlengine.NewStoreFromPGXPool(pool, options...)
	case DriverPostgres:
		db, err := NewSQLDB(ctx, cfg)
		if err != nil {
			return sqlengine.Store{}, err
		}

		return sqlengine.NewStoreFromSQLDB(db, options...)
	case DriverSQLX:
		db, err := NewSQLXDB(ctx, cfg)
		if err != nil {
			return sqlengine.Store{}, err
		}

		return sqlengine.NewStoreFromSQLX(db, options...)
	case DriverSQLite:
		db, err := NewSQLiteDB(ctx, cfg)
		if err != nil {
			return sqlengine.Store{}, err
		}

		return sqlengine.NewStoreFromSQLite(db, options...)
	default:
		return sqlengine.Store{}, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.DBDriver)
	}
}

// PGXPoolConfig derives a pgxpool.Config from the DSN and the pool settings.
func PGXPoolConfig(cfg Config) (*pgxpool.Config, error) {
	const defaultMinConnections = int32(2)

	poolConfig, err := pgxpool.ParseConfig(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("parse pgx dsn: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.DBMaxOpenConns) //nolint:gosec
	poolConfig.MinConns = min(defaultMinConnections, poolConfig.MaxConns)
	poolConfig.MaxConnLifetime = cfg.DBConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBConnIdleTime

	return poolConfig, nil
}

// NewPGXPool opens and pings a pgx pool.
func NewPGXPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := PGXPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// NewSQLDB opens and pings a PostgreSQL *sql.DB through lib/pq.
func NewSQLDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return configurePool(ctx, db, cfg)
}

// NewSQLXDB opens and pings a PostgreSQL *sqlx.DB through lib/pq.
func NewSQLXDB(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err = configurePool(ctx, db.DB, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// NewSQLiteDB opens and pings a SQLite database. SQLite allows a single writer, so the pool holds one
// connection and transactions queue up instead of failing with SQLITE_BUSY.
func NewSQLiteDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqliteCfg := cfg
	sqliteCfg.DBMaxOpenConns = 1
	sqliteCfg.DBMaxIdleConns = 1

	return configurePool(ctx, db, sqliteCfg)
}

func configurePool(ctx context.Context, db *sql.DB, cfg Config) (*sql.DB, error) {
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnLifetime)
	db.SetConnMaxIdleTime(cfg.DBConnIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
