package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/core/response"
	"github.com/dmitrymomot/bookshelf/pkg/broadcast"
)

type streamError struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// stream is one event stream client. It queues encoded events for the SSE
// writer; when the queue is full the oldest pending event is discarded,
// since every snapshot supersedes the ones before it.
type stream struct {
	life library.Lifecycle

	mu     sync.Mutex
	events chan any
	last   []library.Book
	sent   bool
}

func newStream(buffer int) *stream {
	s := &stream{events: make(chan any, buffer)}
	s.life.MarkOpen()
	return s
}

func (s *stream) Open() bool { return s.life.Open() }

// Send queues msg. It never blocks the broadcaster.
func (s *stream) Send(_ context.Context, msg library.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enqueueLocked(msg, false)
}

// changes returns an observer that forwards snapshots only when they differ
// from the last one queued on this stream.
func (s *stream) changes() library.Observer {
	return changesOnly{s}
}

type changesOnly struct{ s *stream }

func (c changesOnly) Open() bool { return c.s.Open() }

func (c changesOnly) Send(_ context.Context, msg library.Message) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.s.enqueueLocked(msg, true)
}

func (s *stream) enqueueLocked(msg library.Message, onlyChanges bool) error {
	if !s.life.Open() {
		return broadcast.ErrObserverClosed
	}

	var ev any
	switch msg.Type {
	case library.TypeBooks:
		if onlyChanges && s.sent && library.SameBooks(s.last, msg.Books) {
			return nil
		}
		s.last, s.sent = library.CloneBooks(msg.Books), true
		ev = library.CloneBooks(msg.Books)
	case library.TypeError:
		ev = response.Event{Name: "error", Data: streamError{Error: msg.Error, Timestamp: time.Now().UTC()}}
	default:
		return nil
	}

	for {
		select {
		case s.events <- ev:
			return nil
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// close ends the stream. The SSE writer returns once the queue drains.
func (s *stream) close(failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.life.Close(failed) {
		close(s.events)
	}
}

func (a *API) events(handler.Context) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		ctx := r.Context()
		st := newStream(a.streamBuffer)

		h, err := a.store.Subscribe(ctx, st)
		if err != nil {
			return err
		}
		log := a.logger.With(
			logger.Component("httpapi"),
			logger.Transport("sse"),
			logger.ObserverID(string(h)),
		)
		log.InfoContext(ctx, "event stream opened", logger.Count("observers", a.store.Observers()))

		var wg sync.WaitGroup
		stop := make(chan struct{})
		defer func() {
			close(stop)
			a.store.Unsubscribe(h)
			st.close(false)
			wg.Wait()
			log.InfoContext(ctx, "event stream closed")
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			a.watch(ctx, st, stop, log)
		}()

		return response.SSE(st.events,
			response.WithKeepAlive(a.keepAlive),
			response.WithSSEErrorHandler(func(ctx context.Context, err error) {
				log.DebugContext(ctx, "event stream write failed", logger.Error(err))
			}),
		)(w, r)
	}
}

// watch re-syncs the stream on the poll interval and ends it when the API
// closes.
func (a *API) watch(ctx context.Context, st *stream, stop <-chan struct{}, log *slog.Logger) {
	var tick <-chan time.Time
	if a.pollInterval > 0 {
		t := time.NewTicker(a.pollInterval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-a.done:
			st.close(false)
			return
		case <-tick:
			if err := a.store.Sync(ctx, st.changes()); err != nil {
				log.DebugContext(ctx, "event stream re-sync failed", logger.Error(err))
			}
		}
	}
}
