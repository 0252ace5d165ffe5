package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/bookshelf/core/binder"
	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/response"
)

// Size units for body limits.
const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// DefaultBodyLimit fits any single book payload with a wide margin.
const DefaultBodyLimit = 64 * KB

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip bypasses the limit for matching requests.
	Skip func(ctx handler.Context) bool
	// MaxSize in bytes. Defaults to DefaultBodyLimit.
	MaxSize int64
}

// BodyLimit caps request bodies at DefaultBodyLimit.
func BodyLimit[C handler.Context]() handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{})
}

// BodyLimitWithSize caps request bodies at maxSize bytes.
func BodyLimitWithSize[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose Content-Length exceeds the
// limit with 413 before the handler runs. Bodies without a length are cut
// off while reading; the read error wraps binder.ErrBodyTooLarge.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultBodyLimit
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			if req.ContentLength > cfg.MaxSize {
				return response.Error(response.ErrRequestEntityTooLarge.
					WithMessage(fmt.Sprintf("Request body too large. Maximum allowed: %d bytes", cfg.MaxSize)).
					WithDetails(map[string]any{"limit": cfg.MaxSize, "size": req.ContentLength}))
			}
			if req.Body != nil && req.Body != http.NoBody {
				req.Body = &limitedReader{reader: req.Body, remaining: cfg.MaxSize, limit: cfg.MaxSize}
			}
			return next(ctx)
		}
	}
}

type limitedReader struct {
	reader    io.ReadCloser
	remaining int64
	limit     int64
}

// Read passes through up to limit bytes. One extra byte is probed so a body
// of exactly limit bytes still ends in io.EOF.
func (lr *limitedReader) Read(p []byte) (int, error) {
	if lr.remaining < 0 {
		return 0, lr.tooLarge()
	}
	if int64(len(p)) > lr.remaining+1 {
		p = p[:lr.remaining+1]
	}
	n, err := lr.reader.Read(p)
	if int64(n) > lr.remaining {
		n = int(lr.remaining)
		lr.remaining = -1
		return n, lr.tooLarge()
	}
	lr.remaining -= int64(n)
	return n, err
}

func (lr *limitedReader) Close() error {
	return lr.reader.Close()
}

func (lr *limitedReader) tooLarge() error {
	return fmt.Errorf("%w: max %d bytes", binder.ErrBodyTooLarge, lr.limit)
}
