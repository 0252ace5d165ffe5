package library

import (
	"context"
	"slices"
	"sync"
)

// Repository persists the catalog. Implementations keep insertion order,
// assign ids on Insert and report misses through the found flags rather
// than errors.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, bool, error)
	// Insert stores b under a fresh id and returns the stored record.
	Insert(ctx context.Context, b Book) (Book, error)
	// Update replaces the record with b.ID. It reports false if none exists.
	Update(ctx context.Context, b Book) (bool, error)
	// Delete removes the record with id. It reports false if none exists.
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Seeder is implemented by repositories that can load an initial catalog.
// Seed keeps the given ids and does nothing when records already exist.
type Seeder interface {
	Seed(ctx context.Context, books []Book) error
}

// MemoryRepository keeps the catalog in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	books []Book
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Seeder     = (*MemoryRepository)(nil)
)

// NewMemoryRepository returns a repository holding a copy of seed.
func NewMemoryRepository(seed ...Book) *MemoryRepository {
	return &MemoryRepository{books: CloneBooks(seed)}
}

func (m *MemoryRepository) List(ctx context.Context) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return CloneBooks(m.books), nil
}

func (m *MemoryRepository) Get(ctx context.Context, id int64) (Book, bool, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(id); i >= 0 {
		return m.books[i], true, nil
	}
	return Book{}, false, nil
}

// Insert assigns max(existing ids)+1, or 1 for an empty catalog.
func (m *MemoryRepository) Insert(ctx context.Context, b Book) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var maxID int64
	for _, cur := range m.books {
		maxID = max(maxID, cur.ID)
	}
	b.ID = maxID + 1
	m.books = append(m.books, b)
	return b, nil
}

func (m *MemoryRepository) Update(ctx context.Context, b Book) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(b.ID)
	if i < 0 {
		return false, nil
	}
	m.books[i] = b
	return true, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return false, nil
	}
	m.books = slices.Delete(m.books, i, i+1)
	return true, nil
}

func (m *MemoryRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.books), nil
}

func (m *MemoryRepository) Seed(ctx context.Context, books []Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.books) == 0 {
		m.books = CloneBooks(books)
	}
	return nil
}

func (m *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryRepository) index(id int64) int {
	return slices.IndexFunc(m.books, func(b Book) bool { return b.ID == id })
}
