// Package pg connects to PostgreSQL through a pgx connection pool, applies
// goose migrations and exposes a health check.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrationsFS, log); err != nil {
//		return err
//	}
//
// Connect retries with a doubling delay and verifies the pool with a ping
// before returning it. Configuration comes from PG_* environment variables,
// see Config.
//
// WithTx and TxFromContext carry a pgx.Tx through a context so repositories
// can join a transaction started by their caller.
package pg
