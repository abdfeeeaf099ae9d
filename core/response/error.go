package response

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/markdownup/core/handler"
)

// Error returns a response that propagates err to the dispatcher's error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}

// ActionError is a named error raised by a declared action. It renders as
// {"error":"<Name>"} with status 400 unless Status is set.
type ActionError struct {
	Name   string
	Status int
}

// NewActionError creates a 400 action error with the given name.
func NewActionError(name string) *ActionError {
	return &ActionError{Name: name, Status: http.StatusBadRequest}
}

// WithStatus returns a copy of the error with a different status code.
func (e *ActionError) WithStatus(status int) *ActionError {
	return &ActionError{Name: e.Name, Status: status}
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	return fmt.Sprintf("action error: %s", e.Name)
}

// StatusCode returns the HTTP status code for the error.
func (e *ActionError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

// Is reports whether target is an ActionError with the same name.
func (e *ActionError) Is(target error) bool {
	t, ok := target.(*ActionError)
	return ok && t.Name == e.Name
}
