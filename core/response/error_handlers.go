package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/markdownup/core/handler"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// convertToHTTPError converts any error to an HTTPError.
// Unknown errors become ErrInternalServerError; their text is never exposed.
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var sc statusCode
	if errors.As(err, &sc) {
		if base, ok := httpErrorsByStatus[sc.StatusCode()]; ok {
			return base
		}
		return newHTTPError(sc.StatusCode())
	}

	return ErrInternalServerError
}

// ErrorHandler renders errors for the dispatcher.
// Action errors are rendered as JSON {"error":"<Name>"}; everything else as a
// plain-text status phrase.
func ErrorHandler[C handler.Context](ctx C, err error) {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		Render(ctx, JSONWithStatus(map[string]string{"error": actionErr.Name}, actionErr.StatusCode()))
		return
	}

	httpErr := convertToHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Message, httpErr.Status))
}

// StatusOf reports the HTTP status an error would be rendered with.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr.StatusCode()
	}
	return convertToHTTPError(err).Status
}
