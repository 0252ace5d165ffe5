package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/response"
	"github.com/dmitrymomot/bookshelf/core/router"
	"github.com/dmitrymomot/bookshelf/middleware"
)

func corsRouter(cfg *middleware.CORSConfig) router.Router[*router.Context] {
	mw := middleware.CORS[*router.Context]()
	if cfg != nil {
		mw = middleware.CORSWithConfig[*router.Context](*cfg)
	}
	r := router.New[*router.Context](router.WithMiddleware(mw))
	r.Get("/books", func(*router.Context) handler.Response { return response.JSON([]string{}) })
	r.Post("/books", func(*router.Context) handler.Response { return response.NoContent() })
	return r
}

func preflight(path, origin, method string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	return req
}

func TestCORSDefault(t *testing.T) {
	t.Parallel()

	r := corsRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Values("Vary"), "Origin")
}

func TestCORSPreflightWithoutOptionsRoute(t *testing.T) {
	t.Parallel()

	r := corsRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, preflight("/books", "http://localhost:5173", http.MethodPost))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestCORSAllowList(t *testing.T) {
	t.Parallel()

	r := corsRouter(&middleware.CORSConfig{
		AllowOrigins:     []string{"https://library.example"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Location"},
		MaxAge:           600,
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("Origin", "https://library.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "https://library.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Location", w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, preflight("/books", "https://library.example", http.MethodPost))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight rejected method", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, preflight("/books", "https://library.example", http.MethodDelete))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("preflight rejected origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, preflight("/books", "https://evil.example", http.MethodPost))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCORSCredentialsNeverWithWildcard(t *testing.T) {
	t.Parallel()

	r := corsRouter(&middleware.CORSConfig{AllowCredentials: true})

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("Origin", "https://library.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSSkip(t *testing.T) {
	t.Parallel()

	r := corsRouter(&middleware.CORSConfig{
		Skip: func(ctx handler.Context) bool { return ctx.Request().Header.Get("Origin") == "" },
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
