package client

import (
	"context"
	"sync"
)

// Value is an observable value with a single writer and any number of
// readers. Subscribers always see the latest value; intermediate ones may be
// skipped if they fall behind. Values are shared, not copied, so readers
// must not modify them.
type Value[T any] struct {
	mu   sync.Mutex
	v    T
	subs map[chan T]struct{}
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[chan T]struct{})}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.v
}

// Set replaces the value and notifies subscribers.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.v = x
	for ch := range v.subs {
		offer(ch, x)
	}
}

// Subscribe returns a channel that receives the current value and then
// every later one. It is closed when ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	v.subs[ch] = struct{}{}
	ch <- v.v
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, ch)
		close(ch)
	}()
	return ch
}

// offer puts x into the single slot of ch, replacing a value nobody has
// read yet.
func offer[T any](ch chan T, x T) {
	select {
	case <-ch:
	default:
	}
	ch <- x
}
