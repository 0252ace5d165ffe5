package sqlite

import "time"

// Config holds SQLite settings. Path may be a file name or ":memory:".
type Config struct {
	Path         string        `env:"SQLITE_PATH" envDefault:"library.db"`
	BusyTimeout  time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
	MaxOpenConns int           `env:"SQLITE_MAX_OPEN_CONNS" envDefault:"1"`
	ForeignKeys  bool          `env:"SQLITE_FOREIGN_KEYS" envDefault:"true"`
}
