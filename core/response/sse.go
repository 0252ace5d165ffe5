package response

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

type sseConfig struct {
	events      <-chan any
	eventName   string
	reconnect   int
	keepAlive   time.Duration
	noKeepAlive bool
	onError     func(context.Context, error)
}

// EventOption configures Server-Sent Events behavior.
type EventOption func(*sseConfig)

// WithEventName sets the event name for SSE events.
// Browsers deliver unnamed events to EventSource.onmessage.
func WithEventName(name string) EventOption {
	return func(s *sseConfig) {
		s.eventName = name
	}
}

// WithReconnectTime sets the client reconnection time in milliseconds.
func WithReconnectTime(milliseconds int) EventOption {
	return func(s *sseConfig) {
		s.reconnect = milliseconds
	}
}

// WithKeepAlive sets the keep-alive interval for SSE connections.
func WithKeepAlive(interval time.Duration) EventOption {
	return func(s *sseConfig) {
		s.keepAlive = interval
	}
}

// WithoutKeepAlive disables keep-alive comments.
func WithoutKeepAlive() EventOption {
	return func(s *sseConfig) {
		s.noKeepAlive = true
	}
}

// WithSSEErrorHandler sets an error handler for SSE streaming errors.
func WithSSEErrorHandler(handler func(context.Context, error)) EventOption {
	return func(s *sseConfig) {
		s.onError = handler
	}
}

// Event is a single Server-Sent Event. Values of this type sent through the
// SSE channel override the stream's event name; Data is encoded like any
// other value.
type Event struct {
	Name string
	ID   string
	Data any
}

// SSE streams values received from events as Server-Sent Events until the
// channel closes or the client disconnects. A failed write also ends it.
// Strings and byte slices are sent as is, other values are JSON encoded.
func SSE(events <-chan any, opts ...EventOption) handler.Response {
	cfg := &sseConfig{
		events:    events,
		keepAlive: DefaultSSEKeepAlive,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, req *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrInternalServerError.WithMessage("streaming unsupported")
		}

		// The server write timeout would otherwise cut long-lived streams.
		_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		fail := func(err error) error {
			if cfg.onError != nil {
				cfg.onError(req.Context(), err)
			}
			return nil
		}

		if cfg.reconnect > 0 {
			if _, err := fmt.Fprintf(w, "retry: %s\n\n", strconv.Itoa(cfg.reconnect)); err != nil {
				return fail(fmt.Errorf("failed to write retry interval: %w", err))
			}
		}

		if _, err := io.WriteString(w, ": connected\n\n"); err != nil {
			return fail(fmt.Errorf("failed to write connection message: %w", err))
		}
		flusher.Flush()

		var keepAliveTicker *time.Ticker
		var keepAliveChan <-chan time.Time
		if !cfg.noKeepAlive && cfg.keepAlive > 0 {
			keepAliveTicker = time.NewTicker(cfg.keepAlive)
			keepAliveChan = keepAliveTicker.C
			defer keepAliveTicker.Stop()
		}

		for {
			select {
			case <-req.Context().Done():
				return nil

			case <-keepAliveChan:
				if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
					return fail(fmt.Errorf("failed to send keepalive: %w", err))
				}
				flusher.Flush()

			case data, ok := <-cfg.events:
				if !ok {
					return nil
				}

				if keepAliveTicker != nil {
					keepAliveTicker.Reset(cfg.keepAlive)
				}

				if err := writeSSEEvent(w, data, cfg.eventName); err != nil {
					return fail(fmt.Errorf("failed to write event: %w", err))
				}
				flusher.Flush()
			}
		}
	}
}

func writeSSEEvent(w io.Writer, data any, eventName string) error {
	if ev, ok := data.(Event); ok {
		if ev.Name != "" {
			eventName = ev.Name
		}
		if ev.ID != "" {
			if _, err := fmt.Fprintf(w, "id: %s\n", ev.ID); err != nil {
				return err
			}
		}
		data = ev.Data
	}

	if eventName != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", eventName); err != nil {
			return err
		}
	}

	var payload []byte
	switch v := data.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = b
	}

	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
