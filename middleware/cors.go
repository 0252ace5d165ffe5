package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// CORSConfig configures Cross-Origin Resource Sharing.
type CORSConfig struct {
	// Skip bypasses CORS handling for matching requests.
	Skip func(ctx handler.Context) bool
	// AllowOrigins lists allowed origins. Empty or "*" allows any origin.
	AllowOrigins []string
	// AllowMethods defaults to GET, HEAD, PUT, PATCH, POST, DELETE.
	AllowMethods []string
	// AllowHeaders defaults to the headers the catalog clients send.
	AllowHeaders  []string
	ExposeHeaders []string
	// AllowCredentials is ignored for wildcard origins.
	AllowCredentials bool
	// MaxAge of preflight results in seconds. Zero omits the header.
	MaxAge int
}

// CORS allows any origin with the default methods and headers.
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithConfig answers preflight requests itself and decorates regular
// responses with the allow headers. Use it as a root middleware so preflights
// for unregistered OPTIONS routes are answered too.
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{"Accept", "Content-Type", "Origin", "Cache-Control", "X-Request-ID"}
	}

	wildcard := len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*")
	allowMethods := strings.Join(cfg.AllowMethods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")

	resolve := func(origin string) (string, bool) {
		switch {
		case wildcard:
			return "*", true
		case origin != "" && slices.Contains(cfg.AllowOrigins, origin):
			return origin, true
		default:
			return "", false
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			allowedOrigin, allowed := resolve(req.Header.Get("Origin"))
			credentials := cfg.AllowCredentials && allowedOrigin != "*"

			if requestMethod := req.Header.Get("Access-Control-Request-Method"); req.Method == http.MethodOptions && requestMethod != "" {
				return func(w http.ResponseWriter, r *http.Request) error {
					headers := w.Header()
					headers.Add("Vary", "Origin")
					headers.Add("Vary", "Access-Control-Request-Method")
					headers.Add("Vary", "Access-Control-Request-Headers")

					if !allowed || !slices.Contains(cfg.AllowMethods, requestMethod) {
						w.WriteHeader(http.StatusForbidden)
						return nil
					}

					headers.Set("Access-Control-Allow-Origin", allowedOrigin)
					headers.Set("Access-Control-Allow-Methods", allowMethods)
					if r.Header.Get("Access-Control-Request-Headers") != "" {
						headers.Set("Access-Control-Allow-Headers", allowHeaders)
					}
					if credentials {
						headers.Set("Access-Control-Allow-Credentials", "true")
					}
					if cfg.MaxAge > 0 {
						headers.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}

					w.WriteHeader(http.StatusNoContent)
					return nil
				}
			}

			resp := next(ctx)
			if !allowed {
				return resp
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				headers := w.Header()
				headers.Set("Access-Control-Allow-Origin", allowedOrigin)
				if credentials {
					headers.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					headers.Set("Access-Control-Expose-Headers", exposeHeaders)
				}
				headers.Add("Vary", "Origin")
				return resp(w, r)
			}
		}
	}
}
