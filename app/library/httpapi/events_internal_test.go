package httpapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/core/response"
	"github.com/dmitrymomot/bookshelf/pkg/broadcast"
)

func TestStreamDiscardsOldestWhenFull(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStream(2)

	for i := range 5 {
		require.NoError(t, st.Send(ctx, library.Snapshot(make([]library.Book, i))))
	}

	first := <-st.events
	second := <-st.events
	assert.Len(t, first, 3)
	assert.Len(t, second, 4)
}

func TestStreamChangesOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStream(4)
	books := library.SeedBooks()

	require.NoError(t, st.Send(ctx, library.Snapshot(books)))
	require.NoError(t, st.changes().Send(ctx, library.Snapshot(books)))
	assert.Len(t, st.events, 1)

	books[0].Title = "Nineteen Eighty-Four"
	require.NoError(t, st.changes().Send(ctx, library.Snapshot(books)))
	assert.Len(t, st.events, 2)

	// Broadcasts are never filtered.
	require.NoError(t, st.Send(ctx, library.Snapshot(books)))
	assert.Len(t, st.events, 3)
}

func TestStreamErrorEvent(t *testing.T) {
	t.Parallel()
	st := newStream(1)

	require.NoError(t, st.Send(context.Background(), library.ErrorNotice("storage unavailable")))
	ev, ok := (<-st.events).(response.Event)
	require.True(t, ok)
	assert.Equal(t, "error", ev.Name)
	assert.Equal(t, "storage unavailable", ev.Data.(streamError).Error)
}

func TestStreamClosed(t *testing.T) {
	t.Parallel()
	st := newStream(1)
	st.close(false)
	st.close(true)

	assert.False(t, st.Open())
	assert.Equal(t, library.StateClosedClean, st.life.State())
	assert.ErrorIs(t, st.Send(context.Background(), library.Snapshot(nil)), broadcast.ErrObserverClosed)

	_, ok := <-st.events
	assert.False(t, ok)
}
