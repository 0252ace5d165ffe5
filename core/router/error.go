package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

var (
	ErrNotFound         error = &routeError{"not found", http.StatusNotFound}
	ErrMethodNotAllowed error = &routeError{"method not allowed", http.StatusMethodNotAllowed}

	ErrNoContextFactory = errors.New("router: context type needs WithContextFactory")
	ErrNilResponse      = errors.New("router: handler returned a nil response")
	ErrInvalidMethod    = errors.New("router: invalid http method")
	ErrNilRouter        = errors.New("router: nil handler mounted")
	ErrNilSubrouter     = errors.New("router: nil route function")
	ErrInvalidPattern   = errors.New("router: pattern must start with /")
)

type routeError struct {
	msg    string
	status int
}

func (e *routeError) Error() string   { return e.msg }
func (e *routeError) StatusCode() int { return e.status }

// PanicError wraps a value recovered from a handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// defaultErrorHandler writes err as plain text. Errors with a StatusCode
// method choose the status, everything else is a 500.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	http.Error(w, err.Error(), status)
}
