// Package storage groups the persistent library.Repository implementations.
// Each backend lives in its own subpackage so a binary links only the
// drivers it selects:
//
//	pgstore      PostgreSQL through pgx, schema managed by goose
//	sqlitestore  SQLite through bun
//	redisstore   Redis hashes through go-redis
//	mongostore   MongoDB through the v2 driver
//
// Every backend passes the storagetest conformance suite and implements
// library.Seeder.
package storage
