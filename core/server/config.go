package server

import (
	"crypto/tls"
	"fmt"
	"time"
)

type Config struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxHeaderBytes  int           `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`

	// Both must be set to serve TLS.
	TLSCertFile string `env:"SERVER_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"SERVER_TLS_KEY_FILE"`
}

func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
	}
}

// NewFromConfig turns cfg into options for New. Zero durations keep the
// package defaults. Explicit opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}

	var all []Option
	add := func(ok bool, opt Option) {
		if ok {
			all = append(all, opt)
		}
	}
	add(cfg.ReadTimeout > 0, WithReadTimeout(cfg.ReadTimeout))
	add(cfg.WriteTimeout > 0, WithWriteTimeout(cfg.WriteTimeout))
	add(cfg.IdleTimeout > 0, WithIdleTimeout(cfg.IdleTimeout))
	add(cfg.ShutdownTimeout > 0, WithShutdownTimeout(cfg.ShutdownTimeout))
	add(cfg.MaxHeaderBytes > 0, WithMaxHeaderBytes(cfg.MaxHeaderBytes))

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w (%s, %s): %w", ErrLoadCert, cfg.TLSCertFile, cfg.TLSKeyFile, err)
		}
		all = append(all, WithTLS(&tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}))
	}

	return New(cfg.Addr, append(all, opts...)...), nil
}
