package router

import (
	"net/http"

	"github.com/dmitrymomot/markdownup/core/handler"
)

// Router dispatches requests to declared actions and falls back to a
// catch-all handler for everything else.
//
// Actions and middleware must be registered before the first request is
// served; the registry is read-only afterwards.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	// Register declares an action at "/<Name>".
	Register(a Action[C])
	// Get declares a builtin GET action.
	Get(name string, h handler.HandlerFunc[C])
	// Use appends middleware applied to actions and the fallback.
	Use(middlewares ...handler.Middleware[C])
}

// Routes provides route introspection for logging and tests.
type Routes interface {
	Routes() []Route
}

// Kind tags how an action is implemented.
type Kind int

const (
	// Builtin actions are compiled into the server.
	Builtin Kind = iota
	// Scripted actions are backed by a user-supplied script.
	Scripted
)

func (k Kind) String() string {
	if k == Scripted {
		return "scripted"
	}
	return "builtin"
}

// Action is a declared route. Methods defaults to GET.
type Action[C handler.Context] struct {
	Name    string
	Kind    Kind
	Methods []string
	Handler handler.HandlerFunc[C]
}

// Route describes a registered action.
type Route struct {
	Name    string
	Path    string
	Kind    Kind
	Methods []string
}

// New creates a router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
