// Package router dispatches requests to a fixed set of declared actions.
//
// Each action lives at "/<name>" and declares the methods it accepts. A
// request for a declared path with another method gets 405 with an Allow
// header; any other path goes to the fallback handler, typically the static
// file resolver.
//
//	r := router.New[*router.Context](
//		router.WithFallback(static.Handler[*router.Context](res)),
//		router.WithErrorHandler(response.ErrorHandler[*router.Context]),
//	)
//	r.Get(index.ActionName, index.Handler[*router.Context](ix, index.FormatMarkdown))
//	http.ListenAndServe(":8080", r)
//
// The registry is built before serving and is read-only afterwards: calling
// Register or Use once ServeHTTP has run panics. Panics raised by handlers
// are recovered, logged and rendered through the error handler as 500.
package router
