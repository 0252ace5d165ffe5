package health

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/core/response"
)

// Check probes one dependency.
type Check func(context.Context) error

// Named prefixes errors from fn with name so failed probes are identifiable in logs.
func Named(name string, fn Check) Check {
	return func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// Run executes checks in order and returns the first failure.
func Run(ctx context.Context, checks ...Check) error {
	for _, check := range checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Readiness responds "READY" when every check passes and 503 otherwise.
//
//	r.Get("/health/ready", health.Readiness[handler.Context](log,
//		health.Named("storage", store.Ping),
//	))
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		if err := Run(ctx, checks...); err != nil {
			log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
			return response.Error(response.ErrServiceUnavailable)
		}
		return response.String("READY")
	}
}
