package bookshelf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/app/library/storage/mongostore"
	"github.com/dmitrymomot/bookshelf/app/library/storage/pgstore"
	"github.com/dmitrymomot/bookshelf/app/library/storage/redisstore"
	"github.com/dmitrymomot/bookshelf/app/library/storage/sqlitestore"
	"github.com/dmitrymomot/bookshelf/core/config"
	"github.com/dmitrymomot/bookshelf/integration/database/mongo"
	"github.com/dmitrymomot/bookshelf/integration/database/pg"
	"github.com/dmitrymomot/bookshelf/integration/database/redis"
	"github.com/dmitrymomot/bookshelf/integration/database/sqlite"
)

// ErrUnknownDriver is returned for an unsupported STORAGE_DRIVER value.
var ErrUnknownDriver = errors.New("unknown storage driver")

// OpenRepository connects the backend named by driver. The returned close
// function releases the backend connection.
func OpenRepository(ctx context.Context, driver string, log *slog.Logger) (library.Repository, func() error, error) {
	noop := func() error { return nil }

	switch driver {
	case DriverMemory, "":
		return library.NewMemoryRepository(), noop, nil

	case DriverPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgstore.New(pool), func() error { pool.Close(); return nil }, nil

	case DriverSQLite:
		var cfg sqlite.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		db, err := sqlite.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := sqlitestore.New(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil

	case DriverRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(client, cfg.KeyPrefix), client.Close, nil

	case DriverMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, cfg, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() error { return db.Client().Disconnect(context.Background()) }
		return mongostore.New(db), disconnect, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
