package pgstore_test

import (
	"context"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/app/library/storage/pgstore"
	"github.com/dmitrymomot/bookshelf/app/library/storage/storagetest"
	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/integration/database/pg"
)

func connect(t *testing.T) *pgstore.Repository {
	t.Helper()

	url := os.Getenv("PG_CONN_URL")
	if url == "" {
		t.Skip("PG_CONN_URL is not set")
	}

	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, RetryAttempts: 1, MigrationsTable: "library_test_migrations"}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pgstore.Migrate(ctx, pool, cfg, logger.Noop()))
	_, err = pool.Exec(ctx, `TRUNCATE books RESTART IDENTITY`)
	require.NoError(t, err)

	return pgstore.New(pool)
}

// Subtests share one table, so they run sequentially.
func TestRepository(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) library.Repository {
		return connect(t)
	})
}

func TestSeedAdvancesSequence(t *testing.T) {
	ctx := context.Background()
	repo := connect(t)

	require.NoError(t, repo.Seed(ctx, library.SeedBooks()))

	ok, err := repo.Delete(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)

	b, err := repo.Insert(ctx, library.Book{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), b.ID)
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(pgstore.Migrations(), ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "00001_create_books.sql")
}

func TestReseedNeverReusesIDs(t *testing.T) {
	storagetest.ReseedNeverReusesIDs(t, connect(t))
}
