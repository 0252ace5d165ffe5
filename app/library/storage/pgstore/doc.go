// Package pgstore implements library.Repository on PostgreSQL.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pgstore.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//	repo := pgstore.New(pool)
//	if err := repo.Seed(ctx, library.SeedBooks()); err != nil {
//		return err
//	}
//
// Ids come from the BIGSERIAL sequence, so removed ids are never reused.
package pgstore
