package middleware_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/core/response"
	"github.com/dmitrymomot/bookshelf/core/router"
	"github.com/dmitrymomot/bookshelf/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.RequestID[*router.Context]())

	var captured string
	r.Get("/books", func(ctx *router.Context) handler.Response {
		id, ok := middleware.GetRequestID(ctx)
		require.True(t, ok)
		captured = id
		return response.NoContent()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, captured, 36)
	assert.Equal(t, captured, w.Header().Get("X-Request-ID"))

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.NotEqual(t, captured, w2.Header().Get("X-Request-ID"))
}

func TestRequestIDWithConfig(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
		HeaderName:  "X-Trace",
		UseExisting: true,
		Generator:   func() string { return "generated" },
		Skip: func(ctx handler.Context) bool {
			return ctx.Request().URL.Path == "/health"
		},
	}))
	r.Get("/books", func(ctx *router.Context) handler.Response { return response.NoContent() })
	r.Get("/health", func(ctx *router.Context) handler.Response { return response.NoContent() })

	t.Run("reuses incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("X-Trace", "incoming")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "incoming", w.Header().Get("X-Trace"))
	})

	t.Run("generates when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
		assert.Equal(t, "generated", w.Header().Get("X-Trace"))
	})

	t.Run("skipped", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, w.Header().Get("X-Trace"))
	})
}

func TestGetRequestIDMissing(t *testing.T) {
	t.Parallel()

	_, ok := middleware.GetRequestID(context.Background())
	assert.False(t, ok)
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextExtractors(middleware.RequestIDExtractor()),
	)

	r := router.New[*router.Context]()
	r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
		Generator: func() string { return "req-42" },
	}))
	r.Get("/books", func(ctx *router.Context) handler.Response {
		log.InfoContext(ctx, "listing")
		return response.NoContent()
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}
