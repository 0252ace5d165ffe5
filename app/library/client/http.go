package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/bookshelf/app/library"
)

// HTTPService talks to the REST API and follows /books/events.
type HTTPService struct {
	baseURL string
	client  *http.Client
	state   *SyncState
}

// HTTPOption configures an HTTPService.
type HTTPOption func(*HTTPService)

// WithHTTPClient replaces http.DefaultClient. The client must not set a
// timeout shorter than the event stream is expected to live.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPService) {
		if c != nil {
			s.client = c
		}
	}
}

// NewHTTPService creates a service for the API at baseURL.
func NewHTTPService(baseURL string, opts ...HTTPOption) *HTTPService {
	s := &HTTPService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
		state:   NewSyncState("Library data updated with HTTP"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPService) Name() string       { return "http" }
func (s *HTTPService) State() *SyncState { return s.state }

// Refresh loads the catalog with GET /books.
func (s *HTTPService) Refresh(ctx context.Context) error {
	var books []library.Book
	if err := s.do(ctx, http.MethodGet, "/books", nil, &books); err != nil {
		s.state.ApplyError("Failed to load books: " + err.Error())
		return err
	}
	s.state.ApplySnapshot(books)
	s.state.Notify(ResultSuccess, "Books loaded successfully with HTTP")
	return nil
}

func (s *HTTPService) Add(ctx context.Context, b library.Book) error {
	if err := s.do(ctx, http.MethodPost, "/books", b, nil); err != nil {
		s.state.ApplyError("Failed to add book")
		return err
	}
	s.state.Notify(ResultSuccess, "Book added successfully with HTTP")
	return nil
}

func (s *HTTPService) Update(ctx context.Context, b library.Book) error {
	if err := s.do(ctx, http.MethodPut, "/books/"+strconv.FormatInt(b.ID, 10), b, nil); err != nil {
		s.state.ApplyError("Failed to update book")
		return err
	}
	s.state.Notify(ResultSuccess, "Book updated successfully with HTTP")
	return nil
}

func (s *HTTPService) Remove(ctx context.Context, id int64) error {
	if err := s.do(ctx, http.MethodDelete, "/books/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		s.state.ApplyError("Failed to remove book")
		return err
	}
	s.state.Notify(ResultSuccess, "Book removed successfully with HTTP")
	return nil
}

// Follow reads the event stream. Once it is open the catalog is loaded
// over REST as well.
func (s *HTTPService) Follow(ctx context.Context) error {
	err := s.follow(ctx)
	if ctx.Err() != nil {
		return nil
	}
	s.state.ApplyError("Real-time connection error")
	return err
}

func (s *HTTPService) follow(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/books/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Status: resp.StatusCode, Text: http.StatusText(resp.StatusCode)}
	}

	if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	return readEvents(resp.Body, func(name, data string) error {
		switch name {
		case "", "message":
			var books []library.Book
			if err := json.Unmarshal([]byte(data), &books); err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			s.state.ApplySnapshot(books)
		case "error":
			var notice struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal([]byte(data), &notice); err != nil || notice.Error == "" {
				notice.Error = data
			}
			s.state.ApplyError(notice.Error)
		}
		return nil
	})
}

// do sends one request, retrying once on any failure, and decodes a JSON
// response into out when out is not nil.
func (s *HTTPService) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}

	var err error
	for range 2 {
		if err = s.roundTrip(ctx, method, path, body, out); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (s *HTTPService) roundTrip(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Status: resp.StatusCode, Text: http.StatusText(resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readEvents parses a text/event-stream body and calls fn for every event
// that carries data. Comments and retry hints are skipped.
func readEvents(r io.Reader, fn func(name, data string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 4<<20)

	var (
		name string
		data []string
	)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if len(data) > 0 {
				if err := fn(name, strings.Join(data, "\n")); err != nil {
					return err
				}
			}
			name, data = "", nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

// IsStatus reports whether err is a StatusError with the given status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
