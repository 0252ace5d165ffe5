package bookshelf

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/app/library/httpapi"
	"github.com/dmitrymomot/bookshelf/app/library/wsapi"
	"github.com/dmitrymomot/bookshelf/core/config"
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/core/router"
	"github.com/dmitrymomot/bookshelf/core/server"
	"github.com/dmitrymomot/bookshelf/middleware"
)

// App wires the catalog store to its REST, SSE and WebSocket surfaces.
type App struct {
	config     Config
	configured bool
	logger     *slog.Logger
	repo       library.Repository
	closeRepo  func() error
	store      *library.Store
	api        *httpapi.API
	hub        *wsapi.Hub
	server     *server.Server
	wsServer   *server.Server
}

type AppOption func(*App) error

// NewApp loads configuration unless WithConfig is given, opens the storage
// backend and seeds it when STORAGE_SEED is set.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if !app.configured {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}
	cfg := app.config

	if app.logger == nil {
		logOpts := []logger.Option{
			logger.WithEnvironment(cfg.Env, cfg.AppName),
			logger.WithContextExtractors(middleware.RequestIDExtractor()),
			logger.WithAttr(logger.Driver(cfg.StorageDriver)),
		}
		if cfg.LogLevel != "" {
			logOpts = append(logOpts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel, slog.LevelInfo)))
		}
		app.logger = logger.New(logOpts...)
	}

	start := time.Now()
	if app.repo == nil {
		repo, closeRepo, err := OpenRepository(ctx, cfg.StorageDriver, app.logger)
		if err != nil {
			return nil, err
		}
		app.repo, app.closeRepo = repo, closeRepo
	}
	if cfg.StorageSeed {
		if seeder, ok := app.repo.(library.Seeder); ok {
			if err := seeder.Seed(ctx, library.SeedBooks()); err != nil {
				_ = app.Close()
				return nil, err
			}
		}
	}
	app.logger.InfoContext(ctx, "storage ready",
		logger.Component("bookshelf"),
		logger.Elapsed(start),
	)

	app.store = library.NewStore(app.repo,
		library.WithLogger(app.logger),
		library.WithStrictYear(cfg.StrictYear),
	)
	app.api = httpapi.New(app.store,
		httpapi.WithLogger(app.logger),
		httpapi.WithPollInterval(cfg.PollInterval),
		httpapi.WithKeepAlive(cfg.KeepAlive),
	)
	app.hub = wsapi.New(app.store,
		wsapi.WithLogger(app.logger),
		wsapi.WithPingInterval(cfg.PingInterval),
	)

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.server = s
	}
	if app.wsServer == nil && cfg.WSAddr != "" {
		wsCfg := cfg.Server
		wsCfg.Addr = cfg.WSAddr
		wsCfg.TLSCertFile, wsCfg.TLSKeyFile = "", ""
		s, err := server.NewFromConfig(wsCfg, server.WithLogger(app.logger))
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.wsServer = s
	}

	return app, nil
}

// WithConfig skips environment loading.
func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		app.configured = true
		return nil
	}
}

func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithRepository bypasses STORAGE_DRIVER. The caller keeps ownership.
func WithRepository(repo library.Repository) AppOption {
	return func(app *App) error {
		if repo == nil {
			return errors.New("repository cannot be nil")
		}
		app.repo = repo
		return nil
	}
}

func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

func WithWebSocketServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("websocket server cannot be nil")
		}
		app.wsServer = s
		return nil
	}
}

// Store exposes the catalog store.
func (app *App) Store() *library.Store { return app.store }

func (app *App) Logger() *slog.Logger { return app.logger }

// Handler builds the REST listener routes: the catalog API, its SSE stream,
// health checks and the WebSocket endpoint at /ws.
func (app *App) Handler() http.Handler {
	r := router.New[handler.Context](
		router.WithErrorHandler[handler.Context](httpapi.ErrorHandler),
		router.WithLogger[handler.Context](app.logger),
		router.WithMiddleware(
			middleware.RequestID[handler.Context](),
			middleware.LoggingWithLogger[handler.Context](app.logger),
			middleware.CORSWithConfig[handler.Context](middleware.CORSConfig{
				AllowOrigins: app.config.CORSAllowOrigins,
			}),
			middleware.SecurityHeaders[handler.Context](),
			middleware.BodyLimitWithSize[handler.Context](app.config.BodyLimit),
		),
	)
	app.api.Register(r)
	app.hub.Register(r, "/ws")
	return r
}

// WebSocketHandler serves the hub at the root path for the dedicated
// WebSocket listener.
func (app *App) WebSocketHandler() http.Handler {
	r := router.New[handler.Context](
		router.WithLogger[handler.Context](app.logger),
	)
	app.hub.Register(r, "/{$}")
	return r
}

// Run serves until ctx is canceled, then ends open streams and shuts the
// listeners down.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(app.server.Run(ctx, app.Handler()))
	if app.wsServer != nil {
		g.Go(app.wsServer.Run(ctx, app.WebSocketHandler()))
	}
	g.Go(func() error {
		<-ctx.Done()
		app.api.Close()
		app.hub.Close()
		return nil
	})

	app.logger.InfoContext(ctx, "library backend started",
		logger.Component("bookshelf"),
		slog.String("rest_addr", app.config.Server.Addr),
		slog.String("ws_addr", app.config.WSAddr),
	)

	return g.Wait()
}

// Close releases the storage backend opened by NewApp.
func (app *App) Close() error {
	if app.closeRepo == nil {
		return nil
	}
	return app.closeRepo()
}
