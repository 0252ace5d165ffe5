package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// fallbackPattern catches every request no registered route matches.
// Use "/{$}" to register a handler for the site root only.
const fallbackPattern = "/"

// probeMethods are checked when building the Allow header of a 405 response.
var probeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// muxCore is the state shared by a router and every group derived from it.
type muxCore[C handler.Context] struct {
	std          *http.ServeMux
	routes       []Route
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
}

// mux implements Router on top of net/http.ServeMux method and wildcard patterns.
type mux[C handler.Context] struct {
	core        *muxCore[C]
	parent      *mux[C]
	prefix      string
	middlewares []handler.Middleware[C]
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		core: &muxCore[C]{
			std:          http.NewServeMux(),
			errorHandler: defaultErrorHandler[C],
			logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.core.newContext == nil {
		m.core.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Without a factory C must be *Context or an interface it satisfies.
			if c, ok := any(NewContext(w, r, params)).(C); ok {
				return c
			}
			panic(ErrNoContextFactory)
		}
	}

	m.core.std.HandleFunc(fallbackPattern, m.core.fallback)

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.core.std.ServeHTTP(w, r)
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

// Method registers a handler for one or more specific HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	seen := make(map[string]bool, len(methods))
	for _, method := range methods {
		method = strings.ToUpper(method)
		if !slices.Contains(probeMethods, method) {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		if seen[method] {
			continue
		}
		seen[method] = true
		m.handle(method, pattern, h)
	}
}

// Use appends middleware. On the root router it applies to every request,
// including not found and method not allowed responses. On a group it applies
// to routes registered on that group afterwards.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.parent == nil {
		m.core.middlewares = append(m.core.middlewares, middlewares...)
		return
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates an inline router with additional middleware.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		core:        m.core,
		parent:      m,
		prefix:      m.prefix,
		middlewares: middlewares,
	}
}

// Group creates an inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Route creates a group whose routes are prefixed with pattern.
func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, pattern))
	}
	checkPattern(pattern)

	sub := &mux[C]{
		core:   m.core,
		parent: m,
		prefix: joinPath(m.prefix, pattern),
	}
	fn(sub)
	return sub
}

// Mount attaches a handler under pattern. The mount prefix is stripped from
// the request path before the handler is called. Mounted routers inherit the
// parent's error handler, logger and context factory.
func (m *mux[C]) Mount(pattern string, sub http.Handler) {
	if sub == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilRouter, pattern))
	}
	checkPattern(pattern)

	prefix := strings.TrimSuffix(joinPath(m.prefix, pattern), "/")

	if subMux, ok := sub.(*mux[C]); ok {
		subMux.core.errorHandler = m.core.errorHandler
		subMux.core.logger = m.core.logger
		subMux.core.newContext = m.core.newContext
		for _, rt := range subMux.Routes() {
			m.core.routes = append(m.core.routes, Route{Method: rt.Method, Pattern: prefix + rt.Pattern})
		}
	} else {
		m.core.routes = append(m.core.routes, Route{Method: "*", Pattern: prefix + "/"})
	}

	m.core.std.Handle(prefix+"/", http.StripPrefix(prefix, sub))
}

// Routes returns all registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	return slices.Clone(m.core.routes)
}

func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) {
	checkPattern(pattern)

	full := joinPath(m.prefix, pattern)
	h := handler.Chain(fn, m.groupMiddlewares()...)

	stdPattern := full
	routeMethod := "*"
	if method != "" {
		stdPattern = method + " " + full
		routeMethod = method
	}

	m.core.std.Handle(stdPattern, &endpoint[C]{
		core:   m.core,
		h:      h,
		params: paramNames(full),
	})
	m.core.routes = append(m.core.routes, Route{Method: routeMethod, Pattern: full})
}

// groupMiddlewares collects middleware of all inline groups up to the root.
func (m *mux[C]) groupMiddlewares() []handler.Middleware[C] {
	var all []handler.Middleware[C]
	for curr := m; curr != nil && curr.parent != nil; curr = curr.parent {
		if len(curr.middlewares) > 0 {
			all = append(slices.Clone(curr.middlewares), all...)
		}
	}
	return all
}

// endpoint adapts a typed handler to http.Handler.
type endpoint[C handler.Context] struct {
	core   *muxCore[C]
	h      handler.HandlerFunc[C]
	params []string
}

func (e *endpoint[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var params map[string]string
	if len(e.params) > 0 {
		params = make(map[string]string, len(e.params))
		for _, name := range e.params {
			params[name] = r.PathValue(name)
		}
	}
	e.core.serve(w, r, params, e.h)
}

func (c *muxCore[C]) serve(w http.ResponseWriter, r *http.Request, params map[string]string, h handler.HandlerFunc[C]) {
	ww := newResponseWriter(w)
	ctx := c.newContext(ww, r, params)

	defer func() {
		if p := recover(); p != nil {
			panicErr := &PanicError{Value: p, Stack: debug.Stack()}

			if ww.Written() {
				c.logger.Error("panic after response written",
					"value", panicErr.Value,
					"stack", string(panicErr.Stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
				return
			}
			c.errorHandler(ctx, panicErr)
		}
	}()

	if len(c.middlewares) > 0 {
		h = handler.Chain(h, c.middlewares...)
	}

	response := h(ctx)
	if response == nil {
		c.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, ctx.Request()); err != nil {
		c.errorHandler(ctx, err)
	}
}

// fallback answers requests no route matched with 404, or 405 plus an Allow
// header when the path is registered for other methods.
func (c *muxCore[C]) fallback(w http.ResponseWriter, r *http.Request) {
	var allowed []string
	probe := r.Clone(r.Context())
	for _, method := range probeMethods {
		if method == r.Method {
			continue
		}
		probe.Method = method
		if _, pattern := c.std.Handler(probe); pattern != "" && pattern != fallbackPattern {
			allowed = append(allowed, method)
		}
	}

	err := ErrNotFound
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		err = ErrMethodNotAllowed
	}

	c.serve(w, r, nil, func(C) handler.Response {
		return func(http.ResponseWriter, *http.Request) error { return err }
	})
}

func checkPattern(pattern string) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}
}

func joinPath(prefix, pattern string) string {
	if prefix == "" {
		return pattern
	}
	if pattern == "/" {
		return prefix
	}
	return strings.TrimSuffix(prefix, "/") + pattern
}

// paramNames extracts wildcard names from a pattern such as /books/{id}.
func paramNames(pattern string) []string {
	var names []string
	for {
		start := strings.IndexByte(pattern, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(pattern[start:], '}')
		if end < 0 {
			return names
		}
		name := strings.TrimSuffix(pattern[start+1:start+end], "...")
		if name != "" && name != "$" {
			names = append(names, name)
		}
		pattern = pattern[start+end+1:]
	}
}
