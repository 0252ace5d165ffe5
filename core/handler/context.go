package handler

import (
	"context"
	"net/http"
)

// Context is what handlers and middleware see of a request. router.Context
// is the stock implementation.
type Context interface {
	context.Context

	Request() *http.Request
	ResponseWriter() http.ResponseWriter

	// Param returns a path wildcard such as {id}, or "" when absent.
	Param(key string) string
	// SetValue stores val in the request context so that later middleware,
	// the handler and the response all observe it.
	SetValue(key, val any)
}
