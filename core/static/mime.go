package static

// Extension groups recognised by the resolver and the indexer.
var (
	MarkdownExts = []string{".md", ".markdown"}
	HTMLExts     = []string{".html", ".htm"}
)

// contentTypes is keyed by extension including the leading dot.
// Lookups are case-sensitive.
var contentTypes = map[string]string{
	".bare":     "text/plain; charset=utf-8",
	".css":      "text/css",
	".csv":      "text/csv",
	".gif":      "image/gif",
	".htm":      "text/html; charset=utf-8",
	".html":     "text/html; charset=utf-8",
	".jpeg":     "image/jpeg",
	".jpg":      "image/jpeg",
	".js":       "application/javascript",
	".json":     "application/json",
	".markdown": "text/markdown; charset=utf-8",
	".md":       "text/markdown; charset=utf-8",
	".mds":      "text/plain; charset=utf-8",
	".png":      "image/png",
	".smd":      "text/plain; charset=utf-8",
	".svg":      "image/svg+xml",
	".tif":      "image/tiff",
	".tiff":     "image/tiff",
	".txt":      "text/plain; charset=utf-8",
	".webp":     "image/webp",
}

// ContentTypeHTML is used for stubs and HTML index files.
const ContentTypeHTML = "text/html; charset=utf-8"

// ContentTypeFor returns the MIME type for an extension such as ".md".
func ContentTypeFor(ext string) (string, bool) {
	ct, ok := contentTypes[ext]
	return ct, ok
}

// IsMarkdown reports whether ext is a Markdown extension.
func IsMarkdown(ext string) bool {
	return hasExt(MarkdownExts, ext)
}

// IsHTML reports whether ext is an HTML extension.
func IsHTML(ext string) bool {
	return hasExt(HTMLExts, ext)
}

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
