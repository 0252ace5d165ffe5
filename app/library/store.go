package library

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/pkg/broadcast"
)

// Observer is a connection that receives catalog messages.
type Observer = broadcast.Observer[Message]

// Store owns the authoritative catalog. Every successful mutation pushes
// exactly one snapshot of the resulting collection to all subscribers. The
// store lock is held across mutate and broadcast, so subscribers see
// snapshots in mutation order.
type Store struct {
	mu         sync.Mutex
	repo       Repository
	registry   *broadcast.Registry[Message]
	strictYear bool
	logger     *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRegistry shares an observer registry with the store.
func WithRegistry(r *broadcast.Registry[Message]) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithStrictYear toggles the four-digit year rule. It is on by default.
func WithStrictYear(strict bool) StoreOption {
	return func(s *Store) {
		s.strictYear = strict
	}
}

// NewStore creates a store over repo.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{
		repo:       repo,
		strictYear: true,
		logger:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = broadcast.NewRegistry(broadcast.WithLogger[Message](s.logger))
	}
	return s
}

// List returns a copy of the catalog.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, Upstream("list", err)
	}
	return CloneBooks(books), nil
}

// Get looks up a book. A miss is reported through the flag, not an error.
func (s *Store) Get(ctx context.Context, id int64) (Book, bool, error) {
	b, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Book{}, false, Upstream("get", err)
	}
	return b, ok, nil
}

// Count returns the number of books.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	return n, Upstream("count", err)
}

// Ping checks the storage backend.
func (s *Store) Ping(ctx context.Context) error {
	return Upstream("ping", s.repo.Ping(ctx))
}

// Observers returns the number of registered observers.
func (s *Store) Observers() int {
	return s.registry.Len()
}

// Add validates candidate, stores it under a fresh id and broadcasts.
// The candidate id is ignored.
func (s *Store) Add(ctx context.Context, candidate Book) (Book, error) {
	b, err := Normalize(candidate, s.strictYear)
	if err != nil {
		return Book{}, err
	}
	b.ID = 0

	s.mu.Lock()
	defer s.mu.Unlock()
	// Once started, a write and its broadcast outlive the caller.
	ctx = context.WithoutCancel(ctx)

	created, err := s.repo.Insert(ctx, b)
	if err != nil {
		return Book{}, Upstream("insert", err)
	}
	s.logger.InfoContext(ctx, "book added",
		logger.Component("library"),
		logger.Action("add"),
		logger.BookID(created.ID),
	)
	s.broadcastLocked(ctx)
	return created, nil
}

// Update replaces the book with id by patch. A non-zero patch id must
// match id.
func (s *Store) Update(ctx context.Context, id int64, patch Book) (Book, error) {
	if patch.ID != 0 && patch.ID != id {
		return Book{}, &ValidationError{Fields: mismatchedID()}
	}
	b, err := Normalize(patch, s.strictYear)
	if err != nil {
		return Book{}, err
	}
	b.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	// Once started, a write and its broadcast outlive the caller.
	ctx = context.WithoutCancel(ctx)

	ok, err := s.repo.Update(ctx, b)
	if err != nil {
		return Book{}, Upstream("update", err)
	}
	if !ok {
		return Book{}, &NotFoundError{ID: id}
	}
	s.logger.InfoContext(ctx, "book updated",
		logger.Component("library"),
		logger.Action("update"),
		logger.BookID(id),
	)
	s.broadcastLocked(ctx)
	return b, nil
}

// Remove deletes the book with id. An absent id yields *NotFoundError and
// leaves the catalog untouched.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Once started, a write and its broadcast outlive the caller.
	ctx = context.WithoutCancel(ctx)

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return Upstream("delete", err)
	}
	if !ok {
		return &NotFoundError{ID: id}
	}
	s.logger.InfoContext(ctx, "book removed",
		logger.Component("library"),
		logger.Action("remove"),
		logger.BookID(id),
	)
	s.broadcastLocked(ctx)
	return nil
}

// Subscribe registers obs and sends it the current catalog. No mutation can
// slip between the two steps. If the initial send fails the observer is
// dropped and the error returned.
func (s *Store) Subscribe(ctx context.Context, obs Observer) (broadcast.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.List(ctx)
	if err != nil {
		return "", Upstream("list", err)
	}

	h := s.registry.Register(obs)
	if err := s.registry.Send(ctx, h, Snapshot(books)); err != nil {
		return "", err
	}
	s.logger.DebugContext(ctx, "observer subscribed",
		logger.Component("library"),
		logger.ObserverID(string(h)),
		logger.Count("observers", s.registry.Len()),
	)
	return h, nil
}

// Unsubscribe drops the observer behind h. Repeated calls are harmless.
func (s *Store) Unsubscribe(h broadcast.Handle) {
	if s.registry.Unregister(h) {
		s.logger.Debug("observer unsubscribed",
			logger.Component("library"),
			logger.ObserverID(string(h)),
		)
	}
}

// Sync sends the current catalog to obs alone, ordered with mutations.
func (s *Store) Sync(ctx context.Context, obs Observer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.List(ctx)
	if err != nil {
		return Upstream("list", err)
	}
	return obs.Send(ctx, Snapshot(books))
}

// broadcastLocked pushes the current catalog to every observer. If the
// catalog cannot be read back, observers get an error notice instead; the
// mutation itself already succeeded.
func (s *Store) broadcastLocked(ctx context.Context) {
	books, err := s.repo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read catalog for broadcast",
			logger.Component("library"),
			logger.Error(err),
		)
		s.registry.Broadcast(ctx, ErrorNotice(Upstream("list", err).Error()))
		return
	}

	n := s.registry.Broadcast(ctx, Snapshot(books))
	s.logger.DebugContext(ctx, "catalog broadcast",
		logger.Component("library"),
		logger.Event("books"),
		logger.Count("delivered", n),
	)
}
