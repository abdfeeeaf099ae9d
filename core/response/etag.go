package response

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/dmitrymomot/markdownup/core/handler"
)

// ETag returns a strong entity tag for content.
func ETag(content []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(content), 16) + `"`
}

// NotModified reports whether the If-None-Match header of r matches etag.
// Weak validators compare equal to their strong form, as RFC 9110 requires
// for If-None-Match.
func NotModified(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" || etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}

// Content serves content with an ETag, answering a matching conditional
// request with 304 Not Modified and an empty body.
func Content(content []byte, contentType, etag string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if etag == "" {
			etag = ETag(content)
		}
		w.Header().Set("ETag", etag)
		if NotModified(r, etag) {
			w.WriteHeader(http.StatusNotModified)
			return nil
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		return BytesWithStatus(content, contentType, http.StatusOK)(w, r)
	}
}
