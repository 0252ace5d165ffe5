package response

import (
	"net/http"

	"github.com/dmitrymomot/bookshelf/core/handler"
)

// Render runs resp outside the router, as error handlers must.
// If resp fails, a bare 500 is written instead.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus writes text/plain. A zero status means 200.
func StringWithStatus(content string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if content == "" {
			return nil
		}
		_, err := w.Write([]byte(content))
		return err
	}
}

func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status writes headers only.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		return nil
	}
}
