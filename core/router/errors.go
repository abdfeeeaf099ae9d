package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/markdownup/core/handler"
)

var (
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrMethodNotAllowed = statusError{status: http.StatusMethodNotAllowed}
	ErrNotFound         = statusError{status: http.StatusNotFound}
	ErrNilResponse      = errors.New("nil response")
)

// statusError is a router error with a fixed status and its status phrase
// as the message.
type statusError struct {
	status int
}

func (e statusError) Error() string {
	return http.StatusText(e.status)
}

func (e statusError) StatusCode() int {
	return e.status
}

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

func statusOf(err error) int {
	var sc statusCode
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// defaultErrorHandler writes the status phrase as plain text.
// Error details are never sent to the client.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := statusOf(err)
	http.Error(w, http.StatusText(status), status)
}

// PanicError interface allows external error handlers to detect and handle panics.
// When a panic is recovered by the router, it's wrapped in an error that implements
// this interface, providing access to the original panic value and stack trace.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
