// Package sqlite opens SQLite databases as bun.DB handles using the
// sqliteshim driver, which picks the cgo or pure Go driver at build time.
//
//	db, err := sqlite.Open(ctx, sqlite.Config{Path: "library.db"})
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
// Configuration comes from SQLITE_* environment variables, see Config.
package sqlite
