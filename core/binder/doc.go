// Package binder decodes request payloads into Go values.
//
// JSON enforces the Content-Type, a 1 MB size limit, strict field matching
// and a single document per body. Decode applies the same rules to raw
// bytes such as WebSocket frames. Struct targets are sanitized according to
// their `sanitize` tags after decoding.
//
// Errors wrap ErrMissingContentType, ErrUnsupportedMediaType, ErrBodyTooLarge
// or ErrFailedToParseJSON and can be matched with errors.Is.
package binder
