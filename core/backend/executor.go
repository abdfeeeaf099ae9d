package backend

import "context"

// Request is the decoded action input handed to a script function: query
// parameters merged with the JSON request body.
type Request map[string]any

// Executor compiles script sources into callable programs.
type Executor interface {
	Compile(name string, source []byte, globals map[string]any) (Program, error)
}

// Program is a compiled script. Call must be safe for concurrent use; each
// call runs in isolation.
type Program interface {
	// Has reports whether the script defines the named function.
	Has(function string) bool
	// Call invokes function with req. Headers set by the script are added to
	// headers. A script-raised API error is returned as *response.ActionError.
	Call(ctx context.Context, function string, req Request, headers *Headers) (any, error)
}
