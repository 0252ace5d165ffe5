package pgstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/integration/database/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the schema migrations in goose format.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate brings the books schema up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, cfg, Migrations(), log)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores the catalog in the books table. Calls join a
// transaction carried by the context through pg.WithTx.
type Repository struct {
	pool *pgxpool.Pool
}

var (
	_ library.Repository = (*Repository)(nil)
	_ library.Seeder     = (*Repository)(nil)
)

// New returns a repository over pool. The schema must already be migrated.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) q(ctx context.Context) querier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return r.pool
}

func (r *Repository) List(ctx context.Context) ([]library.Book, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT id, title, author, year, genre FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByPos[library.Book])
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	return library.CloneBooks(books), nil
}

func (r *Repository) Get(ctx context.Context, id int64) (library.Book, bool, error) {
	var b library.Book
	err := r.q(ctx).QueryRow(ctx,
		`SELECT id, title, author, year, genre FROM books WHERE id = $1`, id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.Genre)
	if pg.IsNotFoundError(err) {
		return library.Book{}, false, nil
	}
	if err != nil {
		return library.Book{}, false, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, true, nil
}

func (r *Repository) Insert(ctx context.Context, b library.Book) (library.Book, error) {
	err := r.q(ctx).QueryRow(ctx,
		`INSERT INTO books (title, author, year, genre) VALUES ($1, $2, $3, $4) RETURNING id`,
		b.Title, b.Author, b.Year, b.Genre,
	).Scan(&b.ID)
	if err != nil {
		return library.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

func (r *Repository) Update(ctx context.Context, b library.Book) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE books SET title = $2, author = $3, year = $4, genre = $5 WHERE id = $1`,
		b.ID, b.Title, b.Author, b.Year, b.Genre,
	)
	if err != nil {
		return false, fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete book %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q(ctx).QueryRow(ctx, `SELECT count(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return pg.Healthcheck(r.pool)(ctx)
}

// Seed inserts books with their ids when the table is empty and moves the
// id sequence forward past the highest seeded id.
func (r *Repository) Seed(ctx context.Context, books []library.Book) error {
	return pg.RunInTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		// Serialises concurrent seeders.
		if _, err := tx.Exec(ctx, `LOCK TABLE books IN EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock books: %w", err)
		}
		n, err := r.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 || len(books) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, b := range books {
			batch.Queue(
				`INSERT INTO books (id, title, author, year, genre) VALUES ($1, $2, $3, $4, $5)`,
				b.ID, b.Title, b.Author, b.Year, b.Genre,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("seed books: %w", err)
		}
		// nextval()-1 is the last id handed out; the sequence never moves back.
		if _, err := tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('books', 'id'),
			GREATEST((SELECT max(id) FROM books), nextval(pg_get_serial_sequence('books', 'id')) - 1))`,
		); err != nil {
			return fmt.Errorf("advance book id sequence: %w", err)
		}
		return nil
	})
}
