package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/router"
)

func text(s string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		_, err := w.Write([]byte(s))
		return err
	}
}

func TestRouterMethods(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/books", func(ctx *router.Context) handler.Response { return text("list") })
	r.Post("/books", func(ctx *router.Context) handler.Response { return text("create") })
	r.Put("/books/{id}", func(ctx *router.Context) handler.Response { return text("update " + ctx.Param("id")) })
	r.Delete("/books/{id}", func(ctx *router.Context) handler.Response { return text("delete " + ctx.Param("id")) })

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/books", "list"},
		{http.MethodPost, "/books", "create"},
		{http.MethodPut, "/books/7", "update 7"},
		{http.MethodDelete, "/books/3", "delete 3"},
	}

	for _, tt := range tests {
		t.Run(tt.method+"_"+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRouterNotFound(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/books", func(ctx *router.Context) handler.Response { return text("list") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/authors", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterMethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/books/{id}", func(ctx *router.Context) handler.Response { return text("get") })
	r.Delete("/books/{id}", func(ctx *router.Context) handler.Response { return text("delete") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/books/1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	allow := rec.Header().Get("Allow")
	assert.Contains(t, allow, http.MethodGet)
	assert.Contains(t, allow, http.MethodDelete)
}

func TestRouterRootPattern(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/{$}", func(ctx *router.Context) handler.Response { return text("index") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "index", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mw := func(name string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				calls = append(calls, name)
				return next(ctx)
			}
		}
	}

	r := router.New(router.WithMiddleware(mw("option")))
	r.Use(mw("root"))
	r.With(mw("inline")).Get("/books", func(ctx *router.Context) handler.Response {
		calls = append(calls, "handler")
		return text("ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, []string{"option", "root", "inline", "handler"}, calls)
}

func TestRouterRootMiddlewareWrapsNotFound(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			if ctx.Request().Method == http.MethodOptions {
				return func(w http.ResponseWriter, r *http.Request) error {
					w.WriteHeader(http.StatusNoContent)
					return nil
				}
			}
			return next(ctx)
		}
	})
	r.Get("/books", func(ctx *router.Context) handler.Response { return text("list") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/books", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterRoute(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Route("/api", func(r router.Router[*router.Context]) {
		r.Get("/", func(ctx *router.Context) handler.Response { return text("api root") })
		r.Get("/books/{id}", func(ctx *router.Context) handler.Response { return text("book " + ctx.Param("id")) })
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books/42", nil))
	assert.Equal(t, "book 42", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Equal(t, "api root", rec.Body.String())
}

func TestRouterMount(t *testing.T) {
	t.Parallel()

	sub := router.New[*router.Context]()
	sub.Get("/books", func(ctx *router.Context) handler.Response {
		return text("mounted " + ctx.Request().URL.Path)
	})

	r := router.New[*router.Context]()
	r.Mount("/v1", sub)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/books", nil))
	assert.Equal(t, "mounted /books", rec.Body.String())

	routes := r.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, router.Route{Method: http.MethodGet, Pattern: "/v1/books"}, routes[0])
}

func TestRouterErrorHandler(t *testing.T) {
	t.Parallel()

	var captured error
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
		captured = err
		ctx.ResponseWriter().WriteHeader(http.StatusConflict)
	}))

	boom := errors.New("boom")
	r.Get("/fail", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error { return boom }
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.ErrorIs(t, captured, boom)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouterNilResponse(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/nil", func(ctx *router.Context) handler.Response { return nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nil", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), router.ErrNilResponse.Error())
}

func TestRouterPanicRecovery(t *testing.T) {
	t.Parallel()

	var panicErr *router.PanicError
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
		require.ErrorAs(t, err, &panicErr)
		ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
	}))
	r.Get("/panic", func(ctx *router.Context) handler.Response {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, panicErr)
	assert.Equal(t, "kaboom", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
}

func TestRouterRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/books", func(ctx *router.Context) handler.Response { return text("") })
	r.Method("/books/{id}", func(ctx *router.Context) handler.Response { return text("") }, "put", "PUT", "delete")
	r.Handle("/any", func(ctx *router.Context) handler.Response { return text("") })

	assert.Equal(t, []router.Route{
		{Method: http.MethodGet, Pattern: "/books"},
		{Method: http.MethodPut, Pattern: "/books/{id}"},
		{Method: http.MethodDelete, Pattern: "/books/{id}"},
		{Method: "*", Pattern: "/any"},
	}, r.Routes())
}

func TestRouterInvalidPattern(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	assert.Panics(t, func() {
		r.Get("books", func(ctx *router.Context) handler.Response { return text("") })
	})
	assert.Panics(t, func() {
		r.Method("/books", func(ctx *router.Context) handler.Response { return text("") }, "FETCH")
	})
}

type appContext struct {
	*router.Context
	tenant string
}

func TestRouterContextFactory(t *testing.T) {
	t.Parallel()

	r := router.New(router.WithContextFactory(func(w http.ResponseWriter, r *http.Request, params map[string]string) *appContext {
		return &appContext{Context: router.NewContext(w, r, params), tenant: "library"}
	}))
	r.Get("/books/{id}", func(ctx *appContext) handler.Response {
		return text(ctx.tenant + ":" + ctx.Param("id"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/5", nil))
	assert.Equal(t, "library:5", strings.TrimSpace(rec.Body.String()))
}
