package response

import (
	"maps"
	"net/http"
	"strings"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// HTTPError is an error with an HTTP status. JSONErrorHandler renders
// Code, Message and Details; Status only sets the response code.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

var (
	ErrBadRequest            = StatusError(http.StatusBadRequest)
	ErrNotFound              = StatusError(http.StatusNotFound)
	ErrMethodNotAllowed      = StatusError(http.StatusMethodNotAllowed)
	ErrRequestEntityTooLarge = StatusError(http.StatusRequestEntityTooLarge)
	ErrUnsupportedMediaType  = StatusError(http.StatusUnsupportedMediaType)
	ErrInternalServerError   = StatusError(http.StatusInternalServerError)
	ErrServiceUnavailable    = StatusError(http.StatusServiceUnavailable)
)

// StatusError builds an HTTPError whose message is the status text and whose
// code is the snake_cased status text, e.g. "not_found".
// Unknown statuses map to 500.
func StatusError(status int) HTTPError {
	text := http.StatusText(status)
	if text == "" {
		status = http.StatusInternalServerError
		text = http.StatusText(status)
	}
	code := strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(strings.ToLower(text))
	return HTTPError{Status: status, Code: code, Message: text}
}

func (e HTTPError) Error() string { return e.Message }

// StatusCode lets the router's default error handler pick up the status.
func (e HTTPError) StatusCode() int { return e.Status }

func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError records err under details["cause"]. The receiver's details map
// is copied, never mutated.
func (e HTTPError) WithError(err error) HTTPError {
	if err == nil {
		return e
	}
	details := make(map[string]any, len(e.Details)+1)
	maps.Copy(details, e.Details)
	details["cause"] = err.Error()
	e.Details = details
	return e
}

// Error returns a response that passes err to the router's error handler.
func Error(err error) handler.Response {
	return func(http.ResponseWriter, *http.Request) error {
		return err
	}
}
