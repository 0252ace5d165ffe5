package library_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/bookshelf/app/library"
)

func TestLifecycle(t *testing.T) {
	t.Parallel()

	var l library.Lifecycle
	assert.Equal(t, library.StateConnecting, l.State())
	assert.False(t, l.Open())

	assert.True(t, l.MarkOpen())
	assert.False(t, l.MarkOpen())
	assert.True(t, l.Open())

	assert.True(t, l.Close(false))
	assert.Equal(t, library.StateClosedClean, l.State())
	assert.False(t, l.Close(true), "closed states are terminal")
	assert.Equal(t, library.StateClosedClean, l.State())
	assert.False(t, l.MarkOpen())
}

func TestLifecycleCloseBeforeOpen(t *testing.T) {
	t.Parallel()

	var l library.Lifecycle
	assert.True(t, l.Close(true))
	assert.Equal(t, library.StateClosedError, l.State())
	assert.True(t, l.State().Closed())
	assert.False(t, l.MarkOpen())
}

func TestLifecycleSingleCloser(t *testing.T) {
	t.Parallel()

	var l library.Lifecycle
	l.MarkOpen()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Close(i%2 == 0) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestConnStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "connecting", library.StateConnecting.String())
	assert.Equal(t, "open", library.StateOpen.String())
	assert.Equal(t, "closed-clean", library.StateClosedClean.String())
	assert.Equal(t, "closed-error", library.StateClosedError.String())
	assert.Equal(t, "unknown", library.ConnState(42).String())
}
