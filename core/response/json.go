package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/markdownup/core/handler"
)

// ContentTypeJSON is the content type of action payloads.
const ContentTypeJSON = "application/json"

// JSON creates an application/json response with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
// The payload is encoded compactly without a trailing newline, so error
// bodies compare byte for byte (e.g. {"error":"InvalidPath"}).
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		body, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return BytesWithStatus(body, ContentTypeJSON, status)(w, r)
	}
}
