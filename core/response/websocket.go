package response

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// WebSocketOption adjusts the upgrader or installs a connection hook.
type WebSocketOption func(*wsSettings)

type wsSettings struct {
	upgrader     websocket.Upgrader
	onConnect    func(context.Context, *websocket.Conn) error
	onDisconnect func(context.Context, *websocket.Conn)
	onError      func(context.Context, error)
}

// WithWSOriginCheck replaces gorilla's same-origin check.
func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(s *wsSettings) { s.upgrader.CheckOrigin = fn }
}

func WithWSAllowAnyOrigin() WebSocketOption {
	return WithWSOriginCheck(func(*http.Request) bool { return true })
}

// WithWSOnConnect rejects the connection when fn fails.
func WithWSOnConnect(fn func(context.Context, *websocket.Conn) error) WebSocketOption {
	return func(s *wsSettings) { s.onConnect = fn }
}

func WithWSOnDisconnect(fn func(context.Context, *websocket.Conn)) WebSocketOption {
	return func(s *wsSettings) { s.onDisconnect = fn }
}

// WithWSErrorHandler receives upgrade, hook and session errors.
func WithWSErrorHandler(fn func(context.Context, error)) WebSocketOption {
	return func(s *wsSettings) { s.onError = fn }
}

// WebSocket upgrades the connection and blocks in session until it returns.
// The response always reports success to the router: once hijacked there is
// no HTTP reply left to write, so failures only reach the error hook.
func WebSocket(session func(context.Context, *websocket.Conn) error, opts ...WebSocketOption) handler.Response {
	s := &wsSettings{}
	for _, opt := range opts {
		opt(s)
	}
	report := func(ctx context.Context, err error) {
		if err != nil && s.onError != nil {
			s.onError(ctx, err)
		}
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		ctx := r.Context()
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			report(ctx, err)
			return nil
		}
		// Clear read and write deadlines inherited from http.Server.
		_ = conn.NetConn().SetDeadline(time.Time{})
		defer func() {
			_ = conn.Close()
			if s.onDisconnect != nil {
				s.onDisconnect(ctx, conn)
			}
		}()

		if s.onConnect != nil {
			if err := s.onConnect(ctx, conn); err != nil {
				report(ctx, err)
				return nil
			}
		}
		report(ctx, session(ctx, conn))
		return nil
	}
}
