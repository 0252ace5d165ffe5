package bookshelf

import (
	"time"

	"github.com/dmitrymomot/bookshelf/core/server"
	"github.com/dmitrymomot/bookshelf/middleware"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Config is the application configuration. Backend settings (PG_*,
// SQLITE_*, REDIS_*, MONGODB_*) are loaded only for the selected driver.
type Config struct {
	Server server.Config

	AppName  string `env:"APP_NAME" envDefault:"library"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	// WSAddr is the dedicated WebSocket listener. Empty disables it; the
	// REST listener serves /ws either way.
	WSAddr string `env:"WS_ADDR" envDefault:":3000"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	StorageSeed   bool   `env:"STORAGE_SEED" envDefault:"true"`
	StrictYear    bool   `env:"LIBRARY_STRICT_YEAR" envDefault:"true"`

	PollInterval time.Duration `env:"SSE_POLL_INTERVAL" envDefault:"2s"`
	KeepAlive    time.Duration `env:"SSE_KEEP_ALIVE" envDefault:"30s"`
	PingInterval time.Duration `env:"WS_PING_INTERVAL" envDefault:"30s"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	BodyLimit        int64    `env:"BODY_LIMIT" envDefault:"65536"`
}

// DefaultConfig matches the env defaults with an in-memory catalog.
func DefaultConfig() Config {
	return Config{
		Server:           server.DefaultConfig(),
		AppName:          "library",
		Env:              "development",
		WSAddr:           ":3000",
		StorageDriver:    DriverMemory,
		StorageSeed:      true,
		StrictYear:       true,
		PollInterval:     2 * time.Second,
		KeepAlive:        30 * time.Second,
		PingInterval:     30 * time.Second,
		CORSAllowOrigins: []string{"*"},
		BodyLimit:        middleware.DefaultBodyLimit,
	}
}
