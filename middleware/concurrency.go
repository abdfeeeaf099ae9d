package middleware

import (
	"net/http"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/markdownup/core/handler"
	"github.com/dmitrymomot/markdownup/core/response"
)

// ConcurrencyLimit bounds the number of requests handled at once. Requests
// over the limit wait for a slot until their context is done. A slot is held
// until the response is written. Non-positive n disables the limit.
func ConcurrencyLimit[C handler.Context](n int) handler.Middleware[C] {
	if n <= 0 {
		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
			return next
		}
	}

	sem := semaphore.NewWeighted(int64(n))

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if err := sem.Acquire(ctx, 1); err != nil {
				return response.Error(err)
			}

			handedOff := false
			defer func() {
				if !handedOff {
					sem.Release(1)
				}
			}()

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			handedOff = true
			return func(w http.ResponseWriter, r *http.Request) error {
				defer sem.Release(1)
				return resp(w, r)
			}
		}
	}
}
