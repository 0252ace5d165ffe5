// Package storagetest holds the conformance suite shared by every
// library.Repository implementation.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/app/library"
)

// Run exercises repo semantics against fresh, empty repositories returned
// by newRepo. newRepo is called once per subtest.
func Run(t *testing.T, newRepo func(t *testing.T) library.Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		repo := newRepo(t)

		books, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		require.NoError(t, repo.Ping(ctx))
	})

	t.Run("insert_assigns_increasing_ids", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Insert(ctx, book("Dune", "Frank Herbert", "1965"))
		require.NoError(t, err)
		second, err := repo.Insert(ctx, book("Emma", "Jane Austen", "1815"))
		require.NoError(t, err)

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
		assert.Equal(t, "Dune", first.Title)

		books, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, first, books[0])
		assert.Equal(t, second, books[1])
	})

	t.Run("insert_ignores_caller_id", func(t *testing.T) {
		repo := newRepo(t)

		b := book("Dune", "Frank Herbert", "1965")
		b.ID = 500
		got, err := repo.Insert(ctx, b)
		require.NoError(t, err)
		next, err := repo.Insert(ctx, book("Emma", "Jane Austen", "1815"))
		require.NoError(t, err)

		assert.Less(t, got.ID, int64(500))
		assert.Equal(t, got.ID+1, next.ID)
	})

	t.Run("get", func(t *testing.T) {
		repo := newRepo(t)

		stored, err := repo.Insert(ctx, book("Dune", "Frank Herbert", "1965"))
		require.NoError(t, err)

		got, found, err := repo.Get(ctx, stored.ID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, stored, got)

		_, found, err = repo.Get(ctx, stored.ID+100)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("update", func(t *testing.T) {
		repo := newRepo(t)

		stored, err := repo.Insert(ctx, book("Dune", "Frank Herbert", "1965"))
		require.NoError(t, err)
		other, err := repo.Insert(ctx, book("Emma", "Jane Austen", "1815"))
		require.NoError(t, err)

		changed := stored
		changed.Title = "Dune Messiah"
		changed.Year = "1969"
		ok, err := repo.Update(ctx, changed)
		require.NoError(t, err)
		assert.True(t, ok)

		books, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []library.Book{changed, other}, books)

		missing := changed
		missing.ID = other.ID + 100
		ok, err = repo.Update(ctx, missing)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)

		a, err := repo.Insert(ctx, book("Dune", "Frank Herbert", "1965"))
		require.NoError(t, err)
		b, err := repo.Insert(ctx, book("Emma", "Jane Austen", "1815"))
		require.NoError(t, err)

		ok, err := repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		books, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []library.Book{b}, books)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("seed", func(t *testing.T) {
		repo := newRepo(t)
		seeder, ok := repo.(library.Seeder)
		if !ok {
			t.Skip("repository does not implement library.Seeder")
		}

		seed := library.SeedBooks()
		require.NoError(t, seeder.Seed(ctx, seed))
		require.NoError(t, seeder.Seed(ctx, seed))

		books, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, seed, books)

		next, err := repo.Insert(ctx, book("Dune", "Frank Herbert", "1965"))
		require.NoError(t, err)
		assert.Equal(t, int64(len(seed)+1), next.ID)
	})

	t.Run("store_integration", func(t *testing.T) {
		store := library.NewStore(newRepo(t))

		added, err := store.Add(ctx, book("Dune", "Frank Herbert", "1965"))
		require.NoError(t, err)

		_, err = store.Update(ctx, added.ID+100, book("Emma", "Jane Austen", "1815"))
		assert.ErrorIs(t, err, library.ErrNotFound)

		require.NoError(t, store.Remove(ctx, added.ID))
		books, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func book(title, author, year string) library.Book {
	return library.Book{Title: title, Author: author, Year: year, Genre: "Fiction"}
}

// ReseedNeverReusesIDs checks a sequence-backed repository: after the
// catalog is emptied and seeded again, new books still get ids above every
// id handed out before. The memory repository reuses freed ids and is not a
// candidate.
func ReseedNeverReusesIDs(t *testing.T, repo library.Repository) {
	t.Helper()
	ctx := context.Background()

	seeder, ok := repo.(library.Seeder)
	require.True(t, ok, "repository does not implement library.Seeder")

	seed := library.SeedBooks()
	require.NoError(t, seeder.Seed(ctx, seed))
	first, err := repo.Insert(ctx, book("Dune", "Frank Herbert", "1965"))
	require.NoError(t, err)
	require.Equal(t, int64(len(seed)+1), first.ID)

	books, err := repo.List(ctx)
	require.NoError(t, err)
	for _, b := range books {
		deleted, err := repo.Delete(ctx, b.ID)
		require.NoError(t, err)
		require.True(t, deleted)
	}

	require.NoError(t, seeder.Seed(ctx, seed))
	next, err := repo.Insert(ctx, book("Emma", "Jane Austen", "1815"))
	require.NoError(t, err)
	assert.Greater(t, next.ID, first.ID)
}
