package library

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/bookshelf/core/validator"
)

var (
	// ErrValidation marks rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an operation on an id the catalog does not hold.
	ErrNotFound = errors.New("book not found")
	// ErrTransport marks a malformed inbound frame.
	ErrTransport = errors.New("malformed message")
	// ErrUpstream marks a storage backend failure.
	ErrUpstream = errors.New("storage unavailable")
)

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + e.Fields.Error()
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ValidationError) Unwrap() error        { return e.Fields }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }

// NotFoundError names the missing id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return "book " + strconv.FormatInt(e.ID, 10) + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *NotFoundError) StatusCode() int      { return http.StatusNotFound }

// TransportError wraps a decoding failure of an inbound frame.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ErrTransport.Error()
	}
	return ErrTransport.Error() + ": " + e.Err.Error()
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) StatusCode() int      { return http.StatusBadRequest }

// UpstreamError wraps a failed storage operation.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUpstream, e.Op, e.Err)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
func (e *UpstreamError) Unwrap() error        { return e.Err }
func (e *UpstreamError) StatusCode() int      { return http.StatusInternalServerError }

// Upstream wraps err as an UpstreamError unless it already belongs to the
// catalog taxonomy. Nil stays nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTransport) || errors.Is(err, ErrUpstream) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		return &ValidationError{Fields: ve}
	}
	return &ValidationError{Fields: validator.ValidationErrors{{Field: "book", Message: err.Error()}}}
}

func mismatchedID() validator.ValidationErrors {
	return validator.ValidationErrors{{Field: "id", Message: "must match the book being updated"}}
}
