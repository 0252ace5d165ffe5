package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/core/logger"
)

// Mode selects the service a Manager uses.
type Mode string

const (
	ModeHTTP      Mode = "http"
	ModeWebSocket Mode = "websocket"
)

// ParseMode accepts "http", "sse", "websocket" and "ws".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "http", "sse":
		return ModeHTTP, nil
	case "websocket", "ws":
		return ModeWebSocket, nil
	default:
		return "", fmt.Errorf("client: unknown mode %q", s)
	}
}

// DefaultReconnectDelay is the pause before a failed stream is reopened.
const DefaultReconnectDelay = 2 * time.Second

// Manager dispatches catalog operations to the service of the current mode.
type Manager struct {
	mu       sync.RWMutex
	mode     Mode
	services map[Mode]Service
	switched chan struct{}

	reconnectDelay time.Duration
	logger         *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

func WithReconnectDelay(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.reconnectDelay = d
		}
	}
}

func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// NewManager creates a Manager starting in mode.
func NewManager(httpSvc, wsSvc Service, mode Mode, opts ...ManagerOption) *Manager {
	m := &Manager{
		mode: mode,
		services: map[Mode]Service{
			ModeHTTP:      httpSvc,
			ModeWebSocket: wsSvc,
		},
		switched:       make(chan struct{}),
		reconnectDelay: DefaultReconnectDelay,
		logger:         logger.Noop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mode returns the current mode.
func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// SetMode switches to mode. Run moves its stream to the new service.
func (m *Manager) SetMode(mode Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if svc := m.services[mode]; svc == nil {
		return fmt.Errorf("client: no service for mode %q", mode)
	}
	if mode == m.mode {
		return nil
	}
	m.mode = mode
	close(m.switched)
	m.switched = make(chan struct{})
	return nil
}

// Current returns the service of the current mode.
func (m *Manager) Current() Service {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.services[m.mode]
}

func (m *Manager) current() (Service, <-chan struct{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.services[m.mode], m.switched
}

func (m *Manager) Refresh(ctx context.Context) error { return m.Current().Refresh(ctx) }

func (m *Manager) Add(ctx context.Context, b library.Book) error { return m.Current().Add(ctx, b) }

func (m *Manager) Update(ctx context.Context, b library.Book) error {
	return m.Current().Update(ctx, b)
}

func (m *Manager) Remove(ctx context.Context, id int64) error { return m.Current().Remove(ctx, id) }

// Run follows the current service until ctx is done, reopening the stream
// after failures and moving it when the mode changes.
func (m *Manager) Run(ctx context.Context) error {
	for {
		svc, switched := m.current()
		followCtx, cancel := context.WithCancel(ctx)

		done := make(chan error, 1)
		go func() { done <- svc.Follow(followCtx) }()

		var err error
		select {
		case err = <-done:
		case <-switched:
			cancel()
			<-done
			m.logger.InfoContext(ctx, "switched service",
				logger.Component("client"),
				logger.Transport(m.Current().Name()),
			)
			continue
		}
		cancel()

		if ctx.Err() != nil {
			return nil
		}
		m.logger.WarnContext(ctx, "stream interrupted, reconnecting",
			logger.Component("client"),
			logger.Transport(svc.Name()),
			logger.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-switched:
		case <-time.After(m.reconnectDelay):
		}
	}
}
