package httpapi_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/app/library/httpapi"
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/router"
)

type brokenRepo struct {
	*library.MemoryRepository
}

func (brokenRepo) Ping(context.Context) error { return errors.New("database is locked") }

func newServer(t *testing.T, store *library.Store, opts ...httpapi.Option) (*httptest.Server, *httpapi.API) {
	t.Helper()
	api := httpapi.New(store, opts...)
	r := router.New[handler.Context](router.WithErrorHandler[handler.Context](httpapi.ErrorHandler))
	api.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		api.Close()
		srv.Close()
	})
	return srv, api
}

func seededStore() *library.Store {
	return library.NewStore(library.NewMemoryRepository(library.SeedBooks()...))
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func TestInfo(t *testing.T) {
	t.Parallel()
	srv, _ := newServer(t, seededStore())

	resp := do(t, http.MethodGet, srv.URL+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "Library Backend API", body["message"])
	assert.Equal(t, "1.0", body["version"])
	assert.Contains(t, body["endpoints"], "events")

	resp = do(t, http.MethodGet, srv.URL+"/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBooksCRUD(t *testing.T) {
	t.Parallel()
	srv, _ := newServer(t, seededStore())

	resp := do(t, http.MethodGet, srv.URL+"/books", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]library.Book](t, resp), 7)

	resp = do(t, http.MethodGet, srv.URL+"/books/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1984", decode[library.Book](t, resp).Title)

	resp = do(t, http.MethodPost, srv.URL+"/books", `{"title":"Animal Farm","author":"George Orwell","year":"1945","genre":"Satire"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/books/8", resp.Header.Get("Location"))
	created := decode[library.Book](t, resp)
	assert.Equal(t, int64(8), created.ID)

	resp = do(t, http.MethodPut, srv.URL+"/books/8", `{"title":"Animal Farm","author":"George Orwell","year":"1945","genre":"Political satire"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Political satire", decode[library.Book](t, resp).Genre)

	resp = do(t, http.MethodDelete, srv.URL+"/books/8", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/books/8", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "book 8 not found", decode[errorBody](t, resp).Message)
}

func TestBooksErrors(t *testing.T) {
	t.Parallel()
	srv, _ := newServer(t, seededStore())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "missing book", method: http.MethodGet, path: "/books/999", status: http.StatusNotFound},
		{name: "bad id", method: http.MethodGet, path: "/books/abc", status: http.StatusBadRequest},
		{name: "negative id", method: http.MethodDelete, path: "/books/-1", status: http.StatusBadRequest},
		{name: "invalid json", method: http.MethodPost, path: "/books", body: `{"title":`, status: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/books", body: `{"title":"x","isbn":"1"}`, status: http.StatusBadRequest},
		{name: "update missing", method: http.MethodPut, path: "/books/999", body: `{"title":"Emma","author":"Jane Austen","year":"1815"}`, status: http.StatusNotFound},
		{name: "update id mismatch", method: http.MethodPut, path: "/books/1", body: `{"id":2,"title":"Emma","author":"Jane Austen","year":"1815"}`, status: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodPatch, path: "/books/1", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestCreateBookValidation(t *testing.T) {
	t.Parallel()
	store := seededStore()
	srv, _ := newServer(t, store)

	resp := do(t, http.MethodPost, srv.URL+"/books", `{"title":"","author":"Someone","year":"nineteen"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[errorBody](t, resp)
	assert.Equal(t, "bad_request", body.Code)
	fields, ok := body.Details["fields"].(map[string]any)
	require.True(t, ok, "details: %v", body.Details)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "year")

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestCreateBookContentType(t *testing.T) {
	t.Parallel()
	srv, _ := newServer(t, seededStore())

	resp, err := http.Post(srv.URL+"/books", "text/plain", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		srv, _ := newServer(t, seededStore())

		resp := do(t, http.MethodGet, srv.URL+"/health", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[map[string]any](t, resp)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["database"])
		assert.EqualValues(t, 7, body["bookCount"])
		assert.NotEmpty(t, body["timestamp"])

		resp = do(t, http.MethodGet, srv.URL+"/health/live", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp = do(t, http.MethodGet, srv.URL+"/health/ready", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("storage down", func(t *testing.T) {
		t.Parallel()
		store := library.NewStore(brokenRepo{library.NewMemoryRepository()})
		srv, _ := newServer(t, store)

		resp := do(t, http.MethodGet, srv.URL+"/health", "")
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decode[map[string]any](t, resp)
		assert.Equal(t, "unhealthy", body["status"])
		assert.Contains(t, body["error"], "database is locked")

		resp = do(t, http.MethodGet, srv.URL+"/health/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

// sseEvent is the payload of one "data:" line and the event name that
// preceded it.
type sseEvent struct {
	name string
	data string
}

func openStream(t *testing.T, url string) (<-chan sseEvent, *http.Response) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan sseEvent, 16)
	go func() {
		defer close(events)
		sc := bufio.NewScanner(resp.Body)
		var name string
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				events <- sseEvent{name: name, data: strings.TrimPrefix(line, "data: ")}
				name = ""
			}
		}
	}()
	return events, resp
}

func nextBooks(t *testing.T, events <-chan sseEvent) []library.Book {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "stream ended")
		require.Empty(t, ev.name)
		var books []library.Book
		require.NoError(t, json.Unmarshal([]byte(ev.data), &books))
		return books
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestEventsPushesSnapshots(t *testing.T) {
	t.Parallel()
	store := seededStore()
	srv, _ := newServer(t, store, httpapi.WithPollInterval(0))

	events, _ := openStream(t, srv.URL+"/books/events")
	assert.Len(t, nextBooks(t, events), 7)
	require.Eventually(t, func() bool { return store.Observers() == 1 }, time.Second, 10*time.Millisecond)

	resp := do(t, http.MethodPost, srv.URL+"/books", `{"title":"Animal Farm","author":"George Orwell","year":"1945"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	books := nextBooks(t, events)
	require.Len(t, books, 8)
	assert.Equal(t, "Animal Farm", books[7].Title)

	require.NoError(t, store.Remove(context.Background(), 1))
	assert.Len(t, nextBooks(t, events), 7)
}

func TestEventsPollPicksUpForeignWrites(t *testing.T) {
	t.Parallel()
	repo := library.NewMemoryRepository(library.SeedBooks()...)
	store := library.NewStore(repo)
	srv, _ := newServer(t, store, httpapi.WithPollInterval(20*time.Millisecond))

	events, _ := openStream(t, srv.URL+"/books/events")
	assert.Len(t, nextBooks(t, events), 7)

	// Another process writing to the same database bypasses this store.
	_, err := repo.Insert(context.Background(), library.Book{Title: "Dune", Author: "Frank Herbert", Year: "1965"})
	require.NoError(t, err)

	books := nextBooks(t, events)
	require.Len(t, books, 8)
	assert.Equal(t, "Dune", books[7].Title)

	select {
	case ev := <-events:
		t.Fatalf("unexpected duplicate event: %v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventsEndOnClose(t *testing.T) {
	t.Parallel()
	store := seededStore()
	srv, api := newServer(t, store, httpapi.WithPollInterval(0))

	events, _ := openStream(t, srv.URL+"/books/events")
	nextBooks(t, events)

	api.Close()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return store.Observers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestEventsDisconnectUnsubscribes(t *testing.T) {
	t.Parallel()
	store := seededStore()
	srv, _ := newServer(t, store, httpapi.WithPollInterval(0))

	events, resp := openStream(t, srv.URL+"/books/events")
	nextBooks(t, events)
	require.Equal(t, 1, store.Observers())

	require.NoError(t, resp.Body.Close())
	require.Eventually(t, func() bool { return store.Observers() == 0 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, store.Remove(context.Background(), 2))
}
