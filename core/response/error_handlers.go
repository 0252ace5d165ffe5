package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// statusCode is implemented by errors that carry their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// AsHTTPError unwraps an HTTPError from err. Other errors carrying a
// StatusCode get the matching status error with err as the cause, the rest
// become a 500.
func AsHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	return StatusError(status).WithError(err)
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	if written(ctx.ResponseWriter()) {
		return
	}
	httpErr := AsHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as JSON objects with code, message and details.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	if written(ctx.ResponseWriter()) {
		return
	}
	httpErr := AsHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}

// written reports whether the router's writer already sent headers.
func written(w http.ResponseWriter) bool {
	ww, ok := w.(interface{ Written() bool })
	return ok && ww.Written()
}
