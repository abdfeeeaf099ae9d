// Package response provides the handler.Response constructors used by the
// dispatcher: plain text and raw bytes, compact JSON, permanent redirects,
// ETag-aware content with 304 support, and the error handler that turns
// returned errors into HTTP responses.
//
// Declared actions signal expected failures with ActionError, which renders
// as a JSON object naming the error:
//
//	return response.Error(response.NewActionError("InvalidPath"))
//	// 400 {"error":"InvalidPath"}
//
// HTTPError values (ErrNotFound, ErrMethodNotAllowed, ...) render as their
// plain-text status phrase. Any other error renders as a generic 500 so that
// filesystem details never reach the client.
package response
