package response

import (
	"net/http"

	"github.com/dmitrymomot/markdownup/core/handler"
)

// RedirectPermanent creates a 301 Moved Permanently response with a short
// plain-text body. The location is written as given; callers escape it.
func RedirectPermanent(location string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Location", location)
		return StringWithStatus(http.StatusText(http.StatusMovedPermanently), http.StatusMovedPermanently)(w, r)
	}
}
