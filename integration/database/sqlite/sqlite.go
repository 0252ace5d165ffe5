package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open opens the database through the sqliteshim driver and wraps it in a
// bun.DB. An in-memory database lives as long as its single connection, so
// ":memory:" always runs with one open connection.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, DSN(cfg))
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDB, err)
	}

	conns := cfg.MaxOpenConns
	if cfg.Path == ":memory:" || conns <= 0 {
		conns = 1
	}
	sqldb.SetMaxOpenConns(conns)
	sqldb.SetMaxIdleConns(conns)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrFailedToOpenDB, err)
	}
	return db, nil
}

// DSN builds the driver connection string with pragmas applied.
func DSN(cfg Config) string {
	q := url.Values{}
	if cfg.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	}
	if cfg.ForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	}
	if len(q) == 0 {
		return "file:" + cfg.Path
	}
	return "file:" + cfg.Path + "?" + q.Encode()
}

// Healthcheck returns a check that pings the database.
func Healthcheck(db *bun.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
