package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/bookshelf/app/library"
)

// WSService talks to the WebSocket endpoint. Writes need a connection
// opened by Follow.
type WSService struct {
	url       string
	dialer    *websocket.Dialer
	state     *SyncState
	writeWait time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
	life *library.Lifecycle
}

// WSOption configures a WSService.
type WSOption func(*WSService)

func WithDialer(d *websocket.Dialer) WSOption {
	return func(s *WSService) {
		if d != nil {
			s.dialer = d
		}
	}
}

// NewWSService creates a service for the WebSocket endpoint at url.
func NewWSService(url string, opts ...WSOption) *WSService {
	s := &WSService{
		url:       url,
		dialer:    websocket.DefaultDialer,
		state:     NewSyncState(""),
		writeWait: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WSService) Name() string       { return "websocket" }
func (s *WSService) State() *SyncState { return s.state }

// ConnState returns the state of the current connection.
func (s *WSService) ConnState() library.ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.life == nil {
		return library.StateConnecting
	}
	return s.life.State()
}

func (s *WSService) Refresh(context.Context) error {
	return s.send(library.TypeGetBooks, nil)
}

func (s *WSService) Add(_ context.Context, b library.Book) error {
	return s.send(library.TypeAddBook, b)
}

func (s *WSService) Update(_ context.Context, b library.Book) error {
	return s.send(library.TypeUpdateBook, b)
}

func (s *WSService) Remove(_ context.Context, id int64) error {
	return s.send(library.TypeRemoveBook, library.RemoveData{ID: id})
}

func (s *WSService) send(t library.MessageType, data any) error {
	req, err := library.NewRequest(t, data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || !s.life.Open() {
		s.state.ApplyError("Real-time connection error")
		return ErrNotConnected
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(req)
}

// Follow dials the server, asks for the catalog and applies every message
// until ctx is done or the connection drops.
func (s *WSService) Follow(ctx context.Context) error {
	life := &library.Lifecycle{}
	s.mu.Lock()
	s.life = life
	s.mu.Unlock()

	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		life.Close(true)
		if ctx.Err() != nil {
			return nil
		}
		s.state.ApplyError("Real-time connection error")
		return fmt.Errorf("dial %s: %w", s.url, err)
	}

	s.mu.Lock()
	s.conn = conn
	life.MarkOpen()
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if life.Close(false) {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.writeWait),
			)
			_ = conn.Close()
		}
	})
	defer stop()
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_ = conn.Close()
		if s.conn == conn {
			s.conn = nil
		}
	}()

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if !life.Close(true) || ctx.Err() != nil {
				return nil
			}
			s.state.ApplyError("Real-time connection error")
			return err
		}

		var msg library.Message
		if err := json.Unmarshal(frame, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case library.TypeBooks:
			s.state.ApplySnapshot(msg.Books)
		case library.TypeError:
			s.state.ApplyError(msg.Error)
		}
	}
}
