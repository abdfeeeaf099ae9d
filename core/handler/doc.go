// Package handler defines the request-processing abstractions shared by the
// dispatcher, the static resolver and the declared actions.
//
// A handler receives a typed request context and returns a Response, a
// deferred rendering function. Errors returned by a Response are passed to
// the dispatcher's ErrorHandler, which turns them into HTTP error responses:
//
//	func hello(ctx handler.Context) handler.Response {
//		return response.String("hello " + ctx.Query("name"))
//	}
//
// Middleware wraps a HandlerFunc and is applied in registration order.
package handler
