package response

import "net/http"

// HTTPError is an error that maps to a fixed HTTP status.
// Its message is the status phrase and is safe to show to clients.
type HTTPError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

func newHTTPError(status int) HTTPError {
	return HTTPError{Status: status, Message: http.StatusText(status)}
}

// Predefined HTTP errors used by the dispatcher and the static resolver.
var (
	ErrBadRequest          = newHTTPError(http.StatusBadRequest)
	ErrNotFound            = newHTTPError(http.StatusNotFound)
	ErrMethodNotAllowed    = newHTTPError(http.StatusMethodNotAllowed)
	ErrInternalServerError = newHTTPError(http.StatusInternalServerError)
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusNotFound:            ErrNotFound,
	http.StatusMethodNotAllowed:    ErrMethodNotAllowed,
	http.StatusInternalServerError: ErrInternalServerError,
}
