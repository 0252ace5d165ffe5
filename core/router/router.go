package router

import (
	"net/http"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// Router registers typed handlers on top of http.ServeMux patterns.
// Path wildcards such as {id} are exposed through Context.Param.
type Router[C handler.Context] interface {
	http.Handler

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	// Handle matches any method.
	Handle(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]
	Route(pattern string, fn func(r Router[C])) Router[C]
	Mount(pattern string, sub http.Handler)

	Routes() []Route
}

// Route is one registered pattern. Method is "*" when any method matches.
type Route struct {
	Method  string
	Pattern string
}

func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux(opts...)
}
