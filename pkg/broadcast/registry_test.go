package broadcast_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/pkg/broadcast"
)

type fakeObserver struct {
	mu       sync.Mutex
	received []string
	fail     bool
	closed   atomic.Bool
}

func (o *fakeObserver) Send(_ context.Context, msg string) error {
	if o.fail {
		return errors.New("connection reset")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.received = append(o.received, msg)
	return nil
}

func (o *fakeObserver) Open() bool { return !o.closed.Load() }

func (o *fakeObserver) messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.received...)
}

func TestRegistryBroadcastIsolatesFailures(t *testing.T) {
	t.Parallel()

	reg := broadcast.NewRegistry[string]()
	a, b, c := &fakeObserver{}, &fakeObserver{fail: true}, &fakeObserver{}
	reg.Register(a)
	reg.Register(b)
	reg.Register(c)
	require.Equal(t, 3, reg.Len())

	n := reg.Broadcast(context.Background(), "snapshot-1")
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"snapshot-1"}, a.messages())
	assert.Equal(t, []string{"snapshot-1"}, c.messages())
	assert.Equal(t, 2, reg.Len())

	n = reg.Broadcast(context.Background(), "snapshot-2")
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"snapshot-1", "snapshot-2"}, a.messages())
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	t.Parallel()

	reg := broadcast.NewRegistry[string]()
	obs := &fakeObserver{}
	h := reg.Register(obs)

	assert.True(t, reg.Unregister(h))
	assert.False(t, reg.Unregister(h))
	assert.False(t, reg.Unregister("unknown"))
	assert.Zero(t, reg.Len())

	assert.Zero(t, reg.Broadcast(context.Background(), "after"))
	assert.Empty(t, obs.messages())
}

func TestRegistrySkipsClosedObservers(t *testing.T) {
	t.Parallel()

	reg := broadcast.NewRegistry[string]()
	open, closed := &fakeObserver{}, &fakeObserver{}
	closed.closed.Store(true)
	hOpen := reg.Register(open)
	hClosed := reg.Register(closed)

	var visited []broadcast.Handle
	reg.ForEach(func(h broadcast.Handle, _ broadcast.Observer[string]) {
		visited = append(visited, h)
	})
	assert.Equal(t, []broadcast.Handle{hOpen}, visited)

	assert.Equal(t, 1, reg.Broadcast(context.Background(), "x"))
	assert.Empty(t, closed.messages())
	assert.Equal(t, 1, reg.Len(), "closed observer is pruned by broadcast")
	assert.False(t, reg.Unregister(hClosed))
}

func TestRegistrySend(t *testing.T) {
	t.Parallel()

	reg := broadcast.NewRegistry[string]()
	good, bad := &fakeObserver{}, &fakeObserver{fail: true}
	hGood := reg.Register(good)
	hBad := reg.Register(bad)

	require.NoError(t, reg.Send(context.Background(), hGood, "only you"))
	assert.Equal(t, []string{"only you"}, good.messages())

	assert.Error(t, reg.Send(context.Background(), hBad, "x"))
	assert.Equal(t, 1, reg.Len())
	assert.ErrorIs(t, reg.Send(context.Background(), hBad, "x"), broadcast.ErrObserverClosed)
}

func TestRegistryHandlesAreUnique(t *testing.T) {
	t.Parallel()

	reg := broadcast.NewRegistry[string]()
	seen := make(map[broadcast.Handle]bool)
	for range 50 {
		h := reg.Register(&fakeObserver{})
		require.False(t, seen[h])
		seen[h] = true
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	t.Parallel()

	reg := broadcast.NewRegistry[string]()
	stable := &fakeObserver{}
	reg.Register(stable)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h := reg.Register(&fakeObserver{fail: i%2 == 0})
			reg.Unregister(h)
		}()
		go func() {
			defer wg.Done()
			reg.Broadcast(context.Background(), "tick")
		}()
	}
	wg.Wait()

	assert.Len(t, stable.messages(), 20)
	assert.Equal(t, 1, reg.Len())
}
