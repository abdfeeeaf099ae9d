// Package middleware provides the HTTP middleware used by the server:
// request IDs, access logging and Prometheus request metrics.
//
// All middleware is generic over the handler.Context type and follows the
// same pattern: a default constructor plus a WithConfig variant where
// configuration makes sense.
//
//	r := router.New[*router.Context](
//		router.WithMiddleware(
//			middleware.RequestID[*router.Context](),
//			middleware.LoggingWithLogger[*router.Context](log),
//			middleware.MetricsMiddleware[*router.Context](metrics),
//		),
//	)
//
// Logging and metrics observe the final status of each request, including
// errors that the router renders after the handler returns.
package middleware
