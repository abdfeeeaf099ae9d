package response

import (
	"net/http"

	"github.com/dmitrymomot/markdownup/core/handler"
)

// Render executes the given response with the provided context.
// If the response returns an error, it writes a plain 500 Internal Server Error.
// The error detail is not written to the client.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return BytesWithStatus([]byte(content), "text/plain; charset=utf-8", status)
}

// Bytes creates a response with custom content type and 200 OK status.
func Bytes(content []byte, contentType string) handler.Response {
	return BytesWithStatus(content, contentType, http.StatusOK)
}

// BytesWithStatus creates a response with custom content type and status code.
// HEAD requests receive headers only.
func BytesWithStatus(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) > 0 && r.Method != http.MethodHead {
			_, err := w.Write(content)
			return err
		}
		return nil
	}
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		return nil
	}
}

// WithHeaders decorates a response with additional headers, set before the
// wrapped response writes its status line.
func WithHeaders(resp handler.Response, headers http.Header) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		for key, values := range headers {
			w.Header().Del(key)
			for _, v := range values {
				w.Header().Add(key, v)
			}
		}
		return resp(w, r)
	}
}
