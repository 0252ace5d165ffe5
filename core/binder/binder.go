package binder

import "net/http"

// Binder fills v from the request. JSON is the one in use.
type Binder func(r *http.Request, v any) error
