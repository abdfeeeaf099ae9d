// Package cache provides Memo, a concurrency-safe memo table for resolved
// static routes.
//
// Entries are created lazily on first resolution and retained for the life
// of the process. There is no eviction and no invalidation: filesystem
// changes after an entry is stored are not observed. This suits a
// short-lived local preview server running in release mode.
//
//	routes := cache.New[static.Outcome]()
//	outcome, err := routes.GetOrCompute(cache.Key{Method: "GET", Path: p}, func() (static.Outcome, bool, error) {
//		o, err := resolve(p)
//		return o, err == nil && o.Kind != static.NotFound, err
//	})
//
// Concurrent first requests for the same key are collapsed with
// golang.org/x/sync/singleflight, so the filesystem work runs once and no
// lock is held while it runs.
package cache
