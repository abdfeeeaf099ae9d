package index

import (
	"fmt"

	"github.com/dmitrymomot/markdownup/core/handler"
	"github.com/dmitrymomot/markdownup/core/response"
	"github.com/dmitrymomot/markdownup/core/static"
)

// Format selects how the index action presents a listing.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat parses a format name. Empty selects FormatMarkdown.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown index format %q", name)
	}
}

// Handler serves the directory-index action. The directory is taken from the
// optional "path" query parameter; absent or empty means the served root.
func Handler[C handler.Context](ix *Indexer, format Format) handler.HandlerFunc[C] {
	contentType, _ := static.ContentTypeFor(".md")

	return func(ctx C) handler.Response {
		l, err := ix.Lookup(ctx.Query("path"))
		if err != nil {
			return response.Error(err)
		}
		if format == FormatJSON {
			return response.JSON(l)
		}
		return response.Bytes(l.Markdown(), contentType)
	}
}
