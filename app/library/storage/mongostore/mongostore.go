package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/bookshelf/app/library"
	dbmongo "github.com/dmitrymomot/bookshelf/integration/database/mongo"
)

const (
	booksCollection    = "books"
	countersCollection = "counters"
	booksCounter       = "books"
)

type bookDoc struct {
	ID     int64  `bson:"_id"`
	Title  string `bson:"title"`
	Author string `bson:"author"`
	Year   string `bson:"year"`
	Genre  string `bson:"genre"`
}

func fromBook(b library.Book) bookDoc {
	return bookDoc{ID: b.ID, Title: b.Title, Author: b.Author, Year: b.Year, Genre: b.Genre}
}

func (d bookDoc) book() library.Book {
	return library.Book{ID: d.ID, Title: d.Title, Author: d.Author, Year: d.Year, Genre: d.Genre}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// Repository stores one document per book with the id as _id. Ids come
// from an atomic counter document in the counters collection.
type Repository struct {
	db       *mongo.Database
	books    *mongo.Collection
	counters *mongo.Collection
}

var (
	_ library.Repository = (*Repository)(nil)
	_ library.Seeder     = (*Repository)(nil)
)

// New returns a repository over db.
func New(db *mongo.Database) *Repository {
	return &Repository{
		db:       db,
		books:    db.Collection(booksCollection),
		counters: db.Collection(countersCollection),
	}
}

func (r *Repository) List(ctx context.Context) ([]library.Book, error) {
	cur, err := r.books.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	books := make([]library.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.book())
	}
	return books, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (library.Book, bool, error) {
	var d bookDoc
	err := r.books.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return library.Book{}, false, nil
	}
	if err != nil {
		return library.Book{}, false, fmt.Errorf("get book %d: %w", id, err)
	}
	return d.book(), true, nil
}

func (r *Repository) Insert(ctx context.Context, b library.Book) (library.Book, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return library.Book{}, err
	}
	b.ID = id
	if _, err := r.books.InsertOne(ctx, fromBook(b)); err != nil {
		return library.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

func (r *Repository) Update(ctx context.Context, b library.Book) (bool, error) {
	res, err := r.books.ReplaceOne(ctx, bson.D{{Key: "_id", Value: b.ID}}, fromBook(b))
	if err != nil {
		return false, fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.books.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, fmt.Errorf("delete book %d: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.books.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return int(n), nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return dbmongo.Healthcheck(r.db.Client())(ctx)
}

// Seed inserts books with their ids when the collection is empty and raises
// the id counter to the highest seeded id.
func (r *Repository) Seed(ctx context.Context, books []library.Book) error {
	if len(books) == 0 {
		return nil
	}
	n, err := r.Count(ctx)
	if err != nil || n > 0 {
		return err
	}

	docs := make([]any, 0, len(books))
	var maxID int64
	for _, b := range books {
		docs = append(docs, fromBook(b))
		maxID = max(maxID, b.ID)
	}
	if _, err := r.books.InsertMany(ctx, docs); err != nil {
		// A concurrent seeder won the race on _id.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("seed books: %w", err)
	}

	_, err = r.counters.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: booksCounter}},
		bson.D{{Key: "$max", Value: bson.D{{Key: "seq", Value: maxID}}}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("advance book counter: %w", err)
	}
	return nil
}

func (r *Repository) nextID(ctx context.Context) (int64, error) {
	var c counterDoc
	err := r.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: booksCounter}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next book id: %w", err)
	}
	return c.Seq, nil
}
