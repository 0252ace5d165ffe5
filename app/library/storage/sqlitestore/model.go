package sqlitestore

import (
	"github.com/uptrace/bun"

	"github.com/dmitrymomot/bookshelf/app/library"
)

type bookModel struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Title  string `bun:"title,notnull,type:varchar(30)"`
	Author string `bun:"author,notnull,type:varchar(30)"`
	Year   string `bun:"year,notnull,type:varchar(30)"`
	Genre  string `bun:"genre,notnull,type:varchar(30)"`
}

func fromBook(b library.Book) bookModel {
	return bookModel{ID: b.ID, Title: b.Title, Author: b.Author, Year: b.Year, Genre: b.Genre}
}

func (m bookModel) book() library.Book {
	return library.Book{ID: m.ID, Title: m.Title, Author: m.Author, Year: m.Year, Genre: m.Genre}
}
