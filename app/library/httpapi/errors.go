package httpapi

import (
	"errors"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/core/binder"
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/response"
)

// ErrorHandler renders catalog and binding errors as JSON. Anything else
// falls through to response.JSONErrorHandler.
//
//	r := router.New[handler.Context](router.WithErrorHandler[handler.Context](httpapi.ErrorHandler))
func ErrorHandler(ctx handler.Context, err error) {
	response.JSONErrorHandler(ctx, AsHTTPError(err))
}

// AsHTTPError maps err to the HTTP error the API answers with.
func AsHTTPError(err error) response.HTTPError {
	var (
		ve *library.ValidationError
		nf *library.NotFoundError
	)

	switch {
	case errors.As(err, &ve):
		return response.ErrBadRequest.
			WithMessage("Validation failed").
			WithDetails(map[string]any{"fields": ve.Fields.Fields()})
	case errors.As(err, &nf):
		return response.ErrNotFound.WithMessage(nf.Error())
	case errors.Is(err, binder.ErrBodyTooLarge):
		return response.ErrRequestEntityTooLarge.WithError(err)
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return response.ErrUnsupportedMediaType.WithError(err)
	case errors.Is(err, binder.ErrFailedToParseJSON), errors.Is(err, library.ErrTransport):
		return response.ErrBadRequest.WithMessage("Invalid request body").WithError(err)
	case errors.Is(err, library.ErrUpstream):
		return response.ErrInternalServerError.WithMessage("Storage unavailable")
	default:
		return response.AsHTTPError(err)
	}
}
