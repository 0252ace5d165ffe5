package wsapi

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/pkg/broadcast"
)

// client is one WebSocket connection registered as a catalog observer.
// gorilla/websocket allows a single concurrent writer, so data frames go
// through wmu. Control frames may be written concurrently.
type client struct {
	ws        *websocket.Conn
	life      library.Lifecycle
	writeWait time.Duration

	wmu sync.Mutex
}

func newClient(ws *websocket.Conn, writeWait time.Duration) *client {
	return &client{ws: ws, writeWait: writeWait}
}

func (c *client) Open() bool { return c.life.Open() }

func (c *client) Send(_ context.Context, msg library.Message) error {
	if !c.life.Open() {
		return broadcast.ErrObserverClosed
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(msg)
}

func (c *client) ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
}

// shutdown sends a close frame and drops the connection. It reports false
// if the connection was already closed.
func (c *client) shutdown(code int, text string, failed bool) bool {
	if !c.life.Close(failed) {
		return false
	}
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(c.writeWait),
	)
	_ = c.ws.Close()
	return true
}

// abort drops the connection without a close handshake.
func (c *client) abort() {
	if c.life.Close(true) {
		_ = c.ws.Close()
	}
}
