package redisstore

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/bookshelf/app/library"
	dbredis "github.com/dmitrymomot/bookshelf/integration/database/redis"
)

// DefaultPrefix namespaces the keys when no prefix is given.
const DefaultPrefix = "library"

// maxTxRetries bounds optimistic transaction retries under contention.
const maxTxRetries = 5

// Repository keeps each book as a JSON value in one hash keyed by id and
// draws ids from a counter. Keys:
//
//	<prefix>:books  hash of id -> book JSON
//	<prefix>:seq    last issued id
type Repository struct {
	client   redis.UniversalClient
	booksKey string
	seqKey   string
}

var (
	_ library.Repository = (*Repository)(nil)
	_ library.Seeder     = (*Repository)(nil)
)

// New returns a repository storing keys under prefix.
func New(client redis.UniversalClient, prefix string) *Repository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repository{
		client:   client,
		booksKey: prefix + ":books",
		seqKey:   prefix + ":seq",
	}
}

func (r *Repository) List(ctx context.Context) ([]library.Book, error) {
	values, err := r.client.HGetAll(ctx, r.booksKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	books := make([]library.Book, 0, len(values))
	for field, raw := range values {
		b, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode book %s: %w", field, err)
		}
		books = append(books, b)
	}
	slices.SortFunc(books, func(a, b library.Book) int { return cmp.Compare(a.ID, b.ID) })
	return books, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (library.Book, bool, error) {
	raw, err := r.client.HGet(ctx, r.booksKey, field(id)).Result()
	if errors.Is(err, redis.Nil) {
		return library.Book{}, false, nil
	}
	if err != nil {
		return library.Book{}, false, fmt.Errorf("get book %d: %w", id, err)
	}
	b, err := decode(raw)
	if err != nil {
		return library.Book{}, false, fmt.Errorf("decode book %d: %w", id, err)
	}
	return b, true, nil
}

func (r *Repository) Insert(ctx context.Context, b library.Book) (library.Book, error) {
	id, err := r.client.Incr(ctx, r.seqKey).Result()
	if err != nil {
		return library.Book{}, fmt.Errorf("next book id: %w", err)
	}
	b.ID = id
	data, err := json.Marshal(b)
	if err != nil {
		return library.Book{}, fmt.Errorf("encode book: %w", err)
	}
	if err := r.client.HSet(ctx, r.booksKey, field(id), data).Err(); err != nil {
		return library.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

// Update overwrites an existing entry. The existence check and the write
// run in one WATCH transaction so a concurrent delete is not resurrected.
func (r *Repository) Update(ctx context.Context, b library.Book) (bool, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("encode book: %w", err)
	}

	var updated bool
	err = r.transact(ctx, func(tx *redis.Tx) error {
		updated = false
		exists, err := tx.HExists(ctx, r.booksKey, field(b.ID)).Result()
		if err != nil || !exists {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, r.booksKey, field(b.ID), data)
			return nil
		})
		updated = err == nil
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := r.client.HDel(ctx, r.booksKey, field(id)).Result()
	if err != nil {
		return false, fmt.Errorf("delete book %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.client.HLen(ctx, r.booksKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return int(n), nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return dbredis.Healthcheck(r.client)(ctx)
}

// Seed writes books when the hash is empty. The id counter only moves
// forward, to the highest seeded id if it is behind.
func (r *Repository) Seed(ctx context.Context, books []library.Book) error {
	if len(books) == 0 {
		return nil
	}

	values := make(map[string]any, len(books))
	var maxID int64
	for _, b := range books {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode book %d: %w", b.ID, err)
		}
		values[field(b.ID)] = data
		maxID = max(maxID, b.ID)
	}

	err := r.transact(ctx, func(tx *redis.Tx) error {
		n, err := tx.HLen(ctx, r.booksKey).Result()
		if err != nil || n > 0 {
			return err
		}
		seq, err := tx.Get(ctx, r.seqKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, r.booksKey, values)
			p.Set(ctx, r.seqKey, max(seq, maxID), 0)
			return nil
		})
		return err
	}, r.seqKey)
	if err != nil {
		return fmt.Errorf("seed books: %w", err)
	}
	return nil
}

// transact runs fn under WATCH on the books hash and any extra keys,
// retrying when a watched key changes underneath it.
func (r *Repository) transact(ctx context.Context, fn func(*redis.Tx) error, extra ...string) error {
	keys := append([]string{r.booksKey}, extra...)
	for range maxTxRetries {
		err := r.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

func field(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decode(raw string) (library.Book, error) {
	var b library.Book
	err := json.Unmarshal([]byte(raw), &b)
	return b, err
}
