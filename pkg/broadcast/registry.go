package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/bookshelf/core/logger"
)

// Observer receives broadcast messages over some live connection.
type Observer[T any] interface {
	// Send delivers msg. An error marks the observer as broken.
	Send(ctx context.Context, msg T) error
	// Open reports whether the observer can still receive messages.
	Open() bool
}

// Handle identifies a registration.
type Handle string

// Registry tracks the set of connected observers. A single mutex guards the
// set and is held across every delivery loop, so registration changes never
// interleave with a broadcast. Send implementations must not call back into
// the registry.
type Registry[T any] struct {
	mu        sync.Mutex
	observers map[Handle]Observer[T]
	order     []Handle
	logger    *slog.Logger
}

// Option configures a Registry.
type Option[T any] func(*Registry[T])

// WithLogger sets the logger used to report failing observers.
func WithLogger[T any](log *slog.Logger) Option[T] {
	return func(r *Registry[T]) {
		if log != nil {
			r.logger = log
		}
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry[T any](opts ...Option[T]) *Registry[T] {
	r := &Registry[T]{
		observers: make(map[Handle]Observer[T]),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds obs and returns its handle.
func (r *Registry[T]) Register(obs Observer[T]) Handle {
	h := Handle(uuid.NewString())

	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers[h] = obs
	r.order = append(r.order, h)
	return h
}

// Unregister removes the observer behind h. It reports whether anything was
// removed, so repeated calls are harmless.
func (r *Registry[T]) Unregister(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(h)
}

func (r *Registry[T]) remove(h Handle) bool {
	if _, ok := r.observers[h]; !ok {
		return false
	}
	delete(r.observers, h)
	for i, cur := range r.order {
		if cur == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered observers, open or not.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers)
}

// ForEach calls fn for every open observer in registration order.
func (r *Registry[T]) ForEach(fn func(Handle, Observer[T])) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range r.order {
		if obs := r.observers[h]; obs.Open() {
			fn(h, obs)
		}
	}
}

// Broadcast sends msg to every open observer and returns how many accepted
// it. Observers whose Send fails are logged and unregistered, as are those no
// longer open. Delivery to the rest continues.
func (r *Registry[T]) Broadcast(ctx context.Context, msg T) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	var failed []Handle
	for _, h := range r.order {
		obs := r.observers[h]
		if !obs.Open() {
			failed = append(failed, h)
			continue
		}
		if err := obs.Send(ctx, msg); err != nil {
			r.logger.WarnContext(ctx, "dropping observer after failed send",
				logger.Component("broadcast"),
				logger.ObserverID(string(h)),
				logger.Error(err),
			)
			failed = append(failed, h)
			continue
		}
		delivered++
	}

	for _, h := range failed {
		r.remove(h)
	}
	return delivered
}

// Send delivers msg to the single observer behind h. The registry lock is
// held so the delivery is ordered with broadcasts. A failing observer is
// unregistered and the error returned.
func (r *Registry[T]) Send(ctx context.Context, h Handle, msg T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	obs, ok := r.observers[h]
	if !ok || !obs.Open() {
		return ErrObserverClosed
	}
	if err := obs.Send(ctx, msg); err != nil {
		r.remove(h)
		return err
	}
	return nil
}
