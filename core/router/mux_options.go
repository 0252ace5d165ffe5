package router

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

type Option[C handler.Context] func(*mux[C])

// WithErrorHandler replaces the plain-text fallback used for handler errors.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.core.errorHandler = h
		}
	}
}

// WithMiddleware installs root middleware. It also wraps 404 and 405 replies.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.core.middlewares = append(m.core.middlewares, middlewares...)
	}
}

// WithContextFactory is required when C is not satisfied by *Context.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request, map[string]string) C) Option[C] {
	return func(m *mux[C]) {
		if f != nil {
			m.core.newContext = f
		}
	}
}

// WithLogger receives panics that happen after the response was written.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if logger != nil {
			m.core.logger = logger
		}
	}
}
