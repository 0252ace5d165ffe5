package client

import (
	"context"
	"errors"

	"github.com/dmitrymomot/bookshelf/app/library"
)

// ErrNotConnected is returned by operations that need a live connection.
var ErrNotConnected = errors.New("client: not connected")

// Service is one way of talking to a bookshelf server.
type Service interface {
	// Follow keeps State in sync until ctx is done or the connection
	// fails. It returns nil only when ctx ends it.
	Follow(ctx context.Context) error
	// Refresh requests the current catalog.
	Refresh(ctx context.Context) error
	Add(ctx context.Context, b library.Book) error
	Update(ctx context.Context, b library.Book) error
	Remove(ctx context.Context, id int64) error
	State() *SyncState
	Name() string
}
