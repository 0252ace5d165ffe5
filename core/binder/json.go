package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrymomot/bookshelf/core/sanitizer"
)

// DefaultMaxJSONSize is the default maximum size of a JSON payload.
const DefaultMaxJSONSize = 1 << 20

// JSON returns a Binder for application/json request bodies. The body must
// hold exactly one JSON value without unknown fields. Struct targets are then
// run through sanitizer.SanitizeStruct.
//
//	var in BookInput
//	if err := binder.JSON()(ctx.Request(), &in); err != nil {
//		return response.Error(response.ErrBadRequest.WithError(err))
//	}
func JSON() Binder {
	return func(r *http.Request, v any) error {
		if err := r.Context().Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, contentType)
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: read body: %w", ErrFailedToParseJSON, err)
		}
		if len(body) > DefaultMaxJSONSize {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, DefaultMaxJSONSize)
		}

		return Decode(body, v)
	}
}

// Decode strictly decodes a single JSON document from data into v and
// sanitizes struct targets. It applies to WebSocket frames as well as bodies.
func Decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
	}

	if isStructPointer(v) {
		if err := sanitizer.SanitizeStruct(v); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}
	}
	return nil
}
