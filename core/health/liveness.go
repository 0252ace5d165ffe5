package health

import (
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/response"
)

// Liveness reports that the process is serving requests. It never checks
// dependencies.
//
//	r.Get("/health/live", health.Liveness[handler.Context])
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}
