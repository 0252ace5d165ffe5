package handler

import "net/http"

// Response writes headers and body. A returned error goes to the router's
// ErrorHandler, which can only reply if nothing was written yet.
type Response func(w http.ResponseWriter, r *http.Request) error

type HandlerFunc[C Context] func(ctx C) Response

type ErrorHandler[C Context] func(ctx C, err error)

type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// Chain applies middlewares so that middlewares[0] runs first.
func Chain[C Context](endpoint HandlerFunc[C], middlewares ...Middleware[C]) HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
