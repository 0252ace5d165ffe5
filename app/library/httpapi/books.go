package httpapi

import (
	"strconv"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/core/binder"
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/response"
	"github.com/dmitrymomot/bookshelf/core/validator"
)

type apiInfo struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

var info = apiInfo{
	Message: "Library Backend API",
	Version: "1.0",
	Endpoints: map[string]string{
		"books":      "GET /books",
		"bookById":   "GET /books/{id}",
		"createBook": "POST /books",
		"updateBook": "PUT /books/{id}",
		"deleteBook": "DELETE /books/{id}",
		"events":     "GET /books/events (Server-Sent Events)",
		"health":     "GET /health",
	},
}

func (a *API) info(handler.Context) handler.Response {
	return response.JSON(info)
}

func (a *API) listBooks(ctx handler.Context) handler.Response {
	books, err := a.store.List(ctx)
	if err != nil {
		return response.Error(err)
	}
	return response.JSON(books)
}

func (a *API) getBook(ctx handler.Context) handler.Response {
	id, err := bookID(ctx)
	if err != nil {
		return response.Error(err)
	}

	book, ok, err := a.store.Get(ctx, id)
	if err != nil {
		return response.Error(err)
	}
	if !ok {
		return response.Error(&library.NotFoundError{ID: id})
	}
	return response.JSON(book)
}

func (a *API) createBook(ctx handler.Context) handler.Response {
	var in library.Book
	if err := binder.JSON()(ctx.Request(), &in); err != nil {
		return response.Error(err)
	}

	book, err := a.store.Add(ctx, in)
	if err != nil {
		return response.Error(err)
	}
	return response.Created("/books/"+strconv.FormatInt(book.ID, 10), book)
}

func (a *API) updateBook(ctx handler.Context) handler.Response {
	id, err := bookID(ctx)
	if err != nil {
		return response.Error(err)
	}

	var in library.Book
	if err := binder.JSON()(ctx.Request(), &in); err != nil {
		return response.Error(err)
	}

	book, err := a.store.Update(ctx, id, in)
	if err != nil {
		return response.Error(err)
	}
	return response.JSON(book)
}

func (a *API) deleteBook(ctx handler.Context) handler.Response {
	id, err := bookID(ctx)
	if err != nil {
		return response.Error(err)
	}
	if err := a.store.Remove(ctx, id); err != nil {
		return response.Error(err)
	}
	return response.NoContent()
}

func bookID(ctx handler.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &library.ValidationError{Fields: validator.ValidationErrors{
			{Field: "id", Message: "must be a positive integer"},
		}}
	}
	return id, nil
}
