package index

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/markdownup/pkg/urlquote"
)

// ActionName is the route of the directory-index action.
const ActionName = "markdown_up_index"

// Header is the first line of every rendered index.
const Header = "## [markdown-up](https://github.com/craigahobbs/markdown-up-py#readme)"

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`(`, `\(`,
	`)`, `\)`,
	`[`, `\[`,
	`]`, `\]`,
	`*`, `\*`,
)

// EscapeMarkdown backslash-escapes the characters that would break link text.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Markdown renders the listing as a navigable Markdown document.
// Links use the viewer's "#url=" hash so each click is rendered client-side.
func (l Listing) Markdown() []byte {
	parts := []string{Header}

	if l.Path != "" {
		parts = append(parts,
			fmt.Sprintf(`You are in the sub-directory, "**%s**".`, EscapeMarkdown(l.Path)),
			fmt.Sprintf("[Back to parent](%s)", l.parentURL()),
		)
	}

	if len(l.Files) > 0 {
		parts = append(parts, "### Markdown Files")
		for _, name := range l.Files {
			parts = append(parts, link(name, "#url="+urlquote.Path(l.join(name))))
		}
	}

	if len(l.Directories) > 0 {
		parts = append(parts, "### Directories")
		for _, name := range l.Directories {
			parts = append(parts, link(name, indexURL(l.join(name))))
		}
	}

	if len(l.Files) == 0 && len(l.Directories) == 0 {
		parts = append(parts, "No markdown files or sub-directories found.")
	}

	return []byte(strings.Join(parts, "\n\n") + "\n")
}

func (l Listing) join(name string) string {
	if l.Path == "" {
		return name
	}
	return l.Path + "/" + name
}

func (l Listing) parentURL() string {
	if l.Parent == "" {
		return "#"
	}
	return indexURL(l.Parent)
}

// indexURL encodes twice: the path is a query value inside the hash URL.
func indexURL(p string) string {
	return "#url=" + urlquote.Path(ActionName+"?path="+urlquote.Path(p))
}

func link(name, url string) string {
	return "[" + EscapeMarkdown(name) + "](" + url + ")"
}
