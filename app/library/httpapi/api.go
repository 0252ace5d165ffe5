package httpapi

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/health"
	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/core/response"
	"github.com/dmitrymomot/bookshelf/core/router"
)

const (
	// DefaultPollInterval is how often an event stream re-reads the catalog
	// to catch writes made by other processes sharing the database.
	DefaultPollInterval = 2 * time.Second

	// DefaultStreamBuffer is the number of snapshots queued per stream
	// before older ones are discarded.
	DefaultStreamBuffer = 8
)

// API serves the catalog over HTTP.
type API struct {
	store        *library.Store
	logger       *slog.Logger
	pollInterval time.Duration
	keepAlive    time.Duration
	streamBuffer int

	closeOnce sync.Once
	done      chan struct{}
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.logger = log
		}
	}
}

// WithPollInterval sets the event stream re-check interval. Zero disables
// polling; streams then rely on store broadcasts alone.
func WithPollInterval(d time.Duration) Option {
	return func(a *API) {
		a.pollInterval = max(d, 0)
	}
}

// WithKeepAlive sets the interval of keep-alive comments on event streams.
func WithKeepAlive(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.keepAlive = d
		}
	}
}

// WithStreamBuffer sets how many snapshots a slow stream may queue.
func WithStreamBuffer(n int) Option {
	return func(a *API) {
		if n > 0 {
			a.streamBuffer = n
		}
	}
}

// New creates an API over store.
func New(store *library.Store, opts ...Option) *API {
	a := &API{
		store:        store,
		logger:       logger.Noop(),
		pollInterval: DefaultPollInterval,
		keepAlive:    response.DefaultSSEKeepAlive,
		streamBuffer: DefaultStreamBuffer,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds the catalog routes to r.
func (a *API) Register(r router.Router[handler.Context]) {
	r.Get("/{$}", a.info)

	r.Route("/books", func(r router.Router[handler.Context]) {
		r.Get("/", a.listBooks)
		r.Post("/", a.createBook)
		r.Get("/events", a.events)
		r.Get("/{id}", a.getBook)
		r.Put("/{id}", a.updateBook)
		r.Delete("/{id}", a.deleteBook)
	})

	r.Get("/health", a.health)
	r.Get("/health/live", health.Liveness[handler.Context])
	r.Get("/health/ready", health.Readiness[handler.Context](a.logger,
		health.Named("storage", a.store.Ping),
	))
}

// Close ends every open event stream. Streams would otherwise hold
// graceful shutdown until its timeout.
func (a *API) Close() {
	a.closeOnce.Do(func() { close(a.done) })
}
