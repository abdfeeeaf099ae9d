package router

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Context is the default request context.
type Context struct {
	w     http.ResponseWriter
	r     *http.Request
	query url.Values
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

// NewContext creates a context outside the router, e.g. in tests.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return newContext(w, r)
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a value on the request context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

func (c *Context) Request() *http.Request {
	return c.r
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Query returns the first value of the named query parameter.
// The query string is parsed once per request.
func (c *Context) Query(key string) string {
	if c.query == nil {
		c.query = c.r.URL.Query()
	}
	return c.query.Get(key)
}

type routeContextKey struct{}

// RouteFromContext returns the declared action serving the request.
// It reports false for requests handled by the fallback.
func RouteFromContext(ctx context.Context) (Route, bool) {
	route, ok := ctx.Value(routeContextKey{}).(Route)
	return route, ok
}
