// Package index lists directories of the served root for the viewer.
//
// An Indexer reads a directory once and classifies its entries into Markdown
// files, HTML files and sub-directories. Hidden entries are skipped and every
// list is sorted by name.
//
// The listing is presented either as JSON or as a Markdown document whose
// links point back into the viewer:
//
//	ix := index.New(os.DirFS(root))
//	l, err := ix.Lookup("docs/guide")
//	if errors.Is(err, index.ErrFileNotFound) {
//		// 404 {"error":"FileNotFound"}
//	}
//	_ = l.Markdown()
//
// Malformed paths fail with static.ErrInvalidPath (400).
package index
