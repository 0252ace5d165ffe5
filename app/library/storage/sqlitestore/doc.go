// Package sqlitestore implements library.Repository on SQLite with the bun
// query builder. The table is created on first use.
//
//	db, err := sqlite.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	repo, err := sqlitestore.New(ctx, db)
package sqlitestore
