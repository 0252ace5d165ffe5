package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/response"
	"github.com/dmitrymomot/bookshelf/core/router"
)

type teapotError struct{}

func (teapotError) Error() string   { return "short and stout" }
func (teapotError) StatusCode() int { return http.StatusNotFound }

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("http_error_passes_through", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("wrapped: %w", response.ErrBadRequest.WithMessage("bad title"))
		got := response.AsHTTPError(err)
		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, "bad title", got.Message)
	})

	t.Run("status_code_interface", func(t *testing.T) {
		t.Parallel()
		got := response.AsHTTPError(fmt.Errorf("lookup: %w", teapotError{}))
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, "not_found", got.Code)
		assert.Equal(t, "lookup: short and stout", got.Details["cause"])
	})

	t.Run("plain_error_is_internal", func(t *testing.T) {
		t.Parallel()
		got := response.AsHTTPError(errors.New("disk on fire"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "internal_server_error", got.Code)
	})
}

func TestJSONErrorHandler(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](response.JSONErrorHandler[*router.Context]))
	r.Get("/books/{id}", func(ctx *router.Context) handler.Response {
		return response.Error(response.ErrNotFound.WithMessage("book not found"))
	})

	t.Run("handler_error", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/9", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_found", body["code"])
		assert.Equal(t, "book not found", body["message"])
	})

	t.Run("route_not_found", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/authors", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"not_found"`)
	})

	t.Run("method_not_allowed", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/books/9", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"method_not_allowed"`)
	})
}

func TestErrorHandlerPlainText(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](response.ErrorHandler[*router.Context]))
	r.Get("/ready", func(ctx *router.Context) handler.Response {
		return response.Error(response.ErrServiceUnavailable)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), rec.Body.String())
}
