package middleware

import (
	"net/http"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// SecurityHeadersConfig lists the headers set on every response. Empty
// fields are not sent.
type SecurityHeadersConfig struct {
	// Skip bypasses the middleware for matching requests.
	Skip func(ctx handler.Context) bool

	ContentTypeOptions        string
	FrameOptions              string
	ContentSecurityPolicy     string
	ReferrerPolicy            string
	CrossOriginResourcePolicy string
	// StrictTransportSecurity is only sent on TLS requests.
	StrictTransportSecurity string
	// CustomHeaders are set after the named ones.
	CustomHeaders map[string]string
}

// APISecurity suits a JSON API consumed from another origin: nothing is
// framable or executable, and responses stay readable cross-origin.
var APISecurity = SecurityHeadersConfig{
	ContentTypeOptions:        "nosniff",
	FrameOptions:              "DENY",
	ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none'",
	ReferrerPolicy:            "no-referrer",
	CrossOriginResourcePolicy: "cross-origin",
	StrictTransportSecurity:   "max-age=31536000; includeSubDomains",
}

// SecurityHeaders applies APISecurity.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](APISecurity)
}

// SecurityHeadersWithConfig applies cfg. Headers are written before the
// handler runs so streaming responses carry them too.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	headers := map[string]string{
		"X-Content-Type-Options":       cfg.ContentTypeOptions,
		"X-Frame-Options":              cfg.FrameOptions,
		"Content-Security-Policy":      cfg.ContentSecurityPolicy,
		"Referrer-Policy":              cfg.ReferrerPolicy,
		"Cross-Origin-Resource-Policy": cfg.CrossOriginResourcePolicy,
	}
	for k, v := range cfg.CustomHeaders {
		headers[k] = v
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				h := w.Header()
				for k, v := range headers {
					if v != "" {
						h.Set(k, v)
					}
				}
				if r.TLS != nil && cfg.StrictTransportSecurity != "" {
					h.Set("Strict-Transport-Security", cfg.StrictTransportSecurity)
				}
				return resp(w, r)
			}
		}
	}
}
