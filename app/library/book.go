package library

import "slices"

// Book is one catalog record.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title" sanitize:"text" validate:"required;max:30"`
	Author string `json:"author" sanitize:"text" validate:"required;max:30"`
	Year   string `json:"year" sanitize:"text"`
	Genre  string `json:"genre" sanitize:"text" validate:"max:30"`
}

// SameBooks reports whether a and b hold the same records in the same order.
func SameBooks(a, b []Book) bool {
	return slices.Equal(a, b)
}

// CloneBooks returns a copy of books that never aliases the input. A nil
// input yields an empty, non-nil slice so it encodes as [].
func CloneBooks(books []Book) []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// SeedBooks returns the initial catalog.
func SeedBooks() []Book {
	return []Book{
		{ID: 1, Title: "1984", Author: "George Orwell", Year: "1949", Genre: "Dystopian"},
		{ID: 2, Title: "To Kill a Mockingbird", Author: "Harper Lee", Year: "1960", Genre: "Fiction"},
		{ID: 3, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Year: "1925", Genre: "Classic"},
		{ID: 4, Title: "Moby Dick", Author: "Herman Melville", Year: "1851", Genre: "Adventure"},
		{ID: 5, Title: "Pride and Prejudice", Author: "Jane Austen", Year: "1813", Genre: "Romance"},
		{ID: 6, Title: "War and Peace", Author: "Leo Tolstoy", Year: "1869", Genre: "Historical"},
		{ID: 7, Title: "The Catcher in the Rye", Author: "J.D. Salinger", Year: "1951", Genre: "Fiction"},
	}
}
