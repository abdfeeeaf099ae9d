package backend

import "net/http"

// Headers collects response headers set by a script during one invocation.
// A new value is created for every call, so headers never leak between
// requests.
type Headers struct {
	h http.Header
}

// NewHeaders returns an empty accumulator.
func NewHeaders() *Headers {
	return &Headers{h: make(http.Header)}
}

// Set replaces any value previously set for key.
func (h *Headers) Set(key, value string) {
	h.h.Set(key, value)
}

// Header returns the collected headers.
func (h *Headers) Header() http.Header {
	return h.h
}
