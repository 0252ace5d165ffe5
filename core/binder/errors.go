package binder

import "errors"

var (
	// ErrUnsupportedMediaType means the Content-Type is not one the binder reads.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMissingContentType means the request has no Content-Type header.
	ErrMissingContentType = errors.New("missing content type")

	// ErrFailedToParseJSON means the payload is not a single JSON document
	// matching the target type.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrBodyTooLarge means the payload exceeds the size limit.
	ErrBodyTooLarge = errors.New("request body too large")
)
