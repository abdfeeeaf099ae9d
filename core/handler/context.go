package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts.
// The router provides a default implementation; applications may supply
// their own through a context factory.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	// Query returns the first value of the named query parameter.
	Query(key string) string
	SetValue(key, val any)
}
