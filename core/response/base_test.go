package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/core/response"
)

func TestString(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, response.String("ALIVE")(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ALIVE", rec.Body.String())
}

func TestStringWithStatus(t *testing.T) {
	t.Parallel()

	t.Run("custom_status", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, response.StringWithStatus("nope", http.StatusTeapot)(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "nope", rec.Body.String())
	})

	t.Run("zero_status_defaults_to_ok", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, response.StringWithStatus("", 0)(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, response.NoContent()(rec, httptest.NewRequest(http.MethodDelete, "/books/1", nil)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	payload := map[string]any{"title": "1984", "year": "1949"}
	require.NoError(t, response.JSON(payload)(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"title":"1984","year":"1949"}`, rec.Body.String())
}

func TestJSONWithStatus(t *testing.T) {
	t.Parallel()

	t.Run("nil_with_zero_status_is_no_content", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, response.JSONWithStatus(nil, 0)(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("explicit_status", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, response.JSONWithStatus([]int{1, 2}, http.StatusAccepted)(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `[1,2]`, rec.Body.String())
	})
}

func TestCreated(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, response.Created("/books/8", map[string]int{"id": 8})(rec, httptest.NewRequest(http.MethodPost, "/books", nil)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/books/8", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"id":8}`, rec.Body.String())
}
