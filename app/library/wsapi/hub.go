package wsapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/core/response"
	"github.com/dmitrymomot/bookshelf/core/router"
)

const (
	DefaultPingInterval   = 30 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	DefaultMaxMessageSize = 64 << 10
)

// Hub accepts WebSocket connections and subscribes each one to a store.
type Hub struct {
	store          *library.Store
	logger         *slog.Logger
	pingInterval   time.Duration
	writeTimeout   time.Duration
	maxMessageSize int64
	checkOrigin    func(*http.Request) bool

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Hub.
type Option func(*Hub)

func WithLogger(log *slog.Logger) Option {
	return func(h *Hub) {
		if log != nil {
			h.logger = log
		}
	}
}

// WithPingInterval sets how often idle connections are pinged. A peer that
// stays silent for an interval plus the write timeout is dropped.
func WithPingInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pingInterval = d
		}
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.writeTimeout = d
		}
	}
}

func WithMaxMessageSize(n int64) Option {
	return func(h *Hub) {
		if n > 0 {
			h.maxMessageSize = n
		}
	}
}

// WithOriginCheck restricts which origins may connect. By default any
// origin is accepted.
func WithOriginCheck(fn func(*http.Request) bool) Option {
	return func(h *Hub) {
		h.checkOrigin = fn
	}
}

// New creates a Hub over store.
func New(store *library.Store, opts ...Option) *Hub {
	h := &Hub{
		store:          store,
		logger:         logger.Noop(),
		pingInterval:   DefaultPingInterval,
		writeTimeout:   DefaultWriteTimeout,
		maxMessageSize: DefaultMaxMessageSize,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register serves the WebSocket endpoint at pattern.
func (h *Hub) Register(r router.Router[handler.Context], pattern string) {
	r.Get(pattern, h.Handle)
}

// Handle upgrades the request and serves the connection until it closes.
func (h *Hub) Handle(handler.Context) handler.Response {
	origin := response.WithWSAllowAnyOrigin()
	if h.checkOrigin != nil {
		origin = response.WithWSOriginCheck(h.checkOrigin)
	}

	return response.WebSocket(h.serve,
		origin,
		response.WithWSErrorHandler(func(ctx context.Context, err error) {
			h.logger.WarnContext(ctx, "websocket connection failed",
				logger.Component("wsapi"),
				logger.Error(err),
			)
		}),
	)
}

// Close disconnects every client with a going-away close frame and waits
// for their handlers to finish.
func (h *Hub) Close() {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.done)
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// track registers a running connection handler. It reports false once the
// hub is closed.
func (h *Hub) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.wg.Add(1)
	return true
}

func (h *Hub) serve(ctx context.Context, ws *websocket.Conn) error {
	if !h.track() {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(h.writeTimeout),
		)
		return nil
	}
	defer h.wg.Done()

	c := newClient(ws, h.writeTimeout)
	readTimeout := h.pingInterval + h.writeTimeout

	ws.SetReadLimit(h.maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	c.life.MarkOpen()
	handle, err := h.store.Subscribe(ctx, c)
	if err != nil {
		c.shutdown(websocket.CloseInternalServerErr, "catalog unavailable", true)
		return fmt.Errorf("subscribe: %w", err)
	}
	defer h.store.Unsubscribe(handle)

	log := h.logger.With(
		logger.Component("wsapi"),
		logger.Transport("websocket"),
		logger.ObserverID(string(handle)),
	)
	log.InfoContext(ctx, "websocket connection established", logger.RemoteAddr(ws.RemoteAddr().String()))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.keepAlive(c, stop)
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				c.life.Close(false)
				log.InfoContext(ctx, "websocket connection closed", slog.String("state", c.life.State().String()))
				return nil
			}
			if !c.life.Close(true) {
				log.InfoContext(ctx, "websocket connection closed", slog.String("state", c.life.State().String()))
				return nil
			}
			_ = ws.Close()
			return fmt.Errorf("read: %w", err)
		}
		h.dispatch(ctx, c, frame, log)
	}
}

func (h *Hub) dispatch(ctx context.Context, c *client, frame []byte, log *slog.Logger) {
	req, err := library.DecodeRequest(frame)
	if err == nil {
		err = h.apply(ctx, c, req)
	}
	if err == nil {
		return
	}

	level := slog.LevelWarn
	if errors.Is(err, library.ErrUpstream) {
		level = slog.LevelError
	}
	log.Log(ctx, level, "websocket request rejected",
		logger.MessageType(string(req.Type)),
		logger.Error(err),
	)

	if sendErr := c.Send(ctx, library.ErrorNotice(err.Error())); sendErr != nil {
		log.DebugContext(ctx, "failed to deliver error notice", logger.Error(sendErr))
	}
}

// apply executes req. Mutations reach this client through the store
// broadcast; getBooks answers it directly.
func (h *Hub) apply(ctx context.Context, c *client, req library.Request) error {
	switch req.Type {
	case library.TypeGetBooks:
		return h.store.Sync(ctx, c)

	case library.TypeAddBook:
		book, err := req.BookData()
		if err != nil {
			return err
		}
		_, err = h.store.Add(ctx, book)
		return err

	case library.TypeUpdateBook:
		book, err := req.BookData()
		if err != nil {
			return err
		}
		_, err = h.store.Update(ctx, book.ID, book)
		return err

	case library.TypeRemoveBook:
		data, err := req.RemoveData()
		if err != nil {
			return err
		}
		return h.store.Remove(ctx, data.ID)

	default:
		return &library.TransportError{Err: fmt.Errorf("unknown message type %q", req.Type)}
	}
}

func (h *Hub) keepAlive(c *client, stop <-chan struct{}) {
	t := time.NewTicker(h.pingInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-h.done:
			c.shutdown(websocket.CloseGoingAway, "server shutting down", false)
			return
		case <-t.C:
			if err := c.ping(); err != nil {
				c.abort()
				return
			}
		}
	}
}
