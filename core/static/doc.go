// Package static resolves request paths under a served directory.
//
// A Resolver classifies each request into an Outcome: a redirect for bare
// directory paths, a static file, a viewer stub for Markdown content, the
// directory-index stub at the served root, or not found.
//
// Directory requests look for index.html and index.htm first, then index.md
// and README.md (served as stubs). A request for "name.html" that does not
// exist is served as a stub for a sibling "name.md" or "name.markdown".
//
// Basic usage:
//
//	res := static.NewResolver(os.DirFS(root),
//		static.WithCache(cache.New[static.Outcome]()),
//	)
//	mux := router.New[*router.Context](router.WithFallback(static.Handler[*router.Context](res)))
//
// Paths are validated with ValidatePath before touching the filesystem and
// every lookup goes through the io/fs interface, so requests cannot escape
// the served root.
package static
