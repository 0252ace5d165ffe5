package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/integration/database/sqlite"
)

// Repository stores the catalog in a SQLite books table through bun.
type Repository struct {
	db *bun.DB
}

var (
	_ library.Repository = (*Repository)(nil)
	_ library.Seeder     = (*Repository)(nil)
)

// AUTOINCREMENT keeps sqlite_sequence, so ids freed by deletes are never
// handed out again, even after the table is emptied and reseeded.
const createBooks = `CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title VARCHAR(30) NOT NULL,
	author VARCHAR(30) NOT NULL,
	year VARCHAR(30) NOT NULL,
	genre VARCHAR(30) NOT NULL
)`

// New creates the books table when missing and returns the repository.
func New(ctx context.Context, db *bun.DB) (*Repository, error) {
	if _, err := db.NewRaw(createBooks).Exec(ctx); err != nil {
		return nil, fmt.Errorf("create books table: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) List(ctx context.Context) ([]library.Book, error) {
	var models []bookModel
	if err := r.db.NewSelect().Model(&models).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	books := make([]library.Book, 0, len(models))
	for _, m := range models {
		books = append(books, m.book())
	}
	return books, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (library.Book, bool, error) {
	var m bookModel
	err := r.db.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return library.Book{}, false, nil
	}
	if err != nil {
		return library.Book{}, false, fmt.Errorf("get book %d: %w", id, err)
	}
	return m.book(), true, nil
}

func (r *Repository) Insert(ctx context.Context, b library.Book) (library.Book, error) {
	m := fromBook(b)
	m.ID = 0
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return library.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return m.book(), nil
}

func (r *Repository) Update(ctx context.Context, b library.Book) (bool, error) {
	m := fromBook(b)
	res, err := r.db.NewUpdate().Model(&m).WherePK().Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return affected(res)
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.NewDelete().Model((*bookModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete book %d: %w", id, err)
	}
	return affected(res)
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*bookModel)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return sqlite.Healthcheck(r.db)(ctx)
}

// Seed inserts books with their ids when the table is empty.
func (r *Repository) Seed(ctx context.Context, books []library.Book) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		n, err := tx.NewSelect().Model((*bookModel)(nil)).Count(ctx)
		if err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		if n > 0 {
			return nil
		}
		models := make([]bookModel, 0, len(books))
		for _, b := range books {
			models = append(models, fromBook(b))
		}
		if _, err := tx.NewInsert().Model(&models).Exec(ctx); err != nil {
			return fmt.Errorf("seed books: %w", err)
		}
		return nil
	})
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
