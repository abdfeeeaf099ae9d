package stub

import (
	"bytes"
	"text/template"

	"github.com/dmitrymomot/markdownup/pkg/urlquote"
)

// Default viewer assets.
const (
	DefaultModuleURL = "https://craigahobbs.github.io/markdown-up/markdown-up/index.js"
	DefaultIndexURL  = "markdown_up_index"
)

// DefaultStylesheets are the stylesheets the viewer expects on the page.
var DefaultStylesheets = []string{
	"https://craigahobbs.github.io/markdown-up/markdown-model.css",
	"https://craigahobbs.github.io/markdown-up/schema-markdown-doc.css",
}

var stubTemplate = template.Must(template.New("stub").Funcs(template.FuncMap{
	"js": template.JSEscapeString,
}).Parse(`<!DOCTYPE html>
<html lang="en">
    <head>
        <meta charset="UTF-8">
        <meta name="viewport" content="width=device-width, initial-scale=1">
{{- range .Stylesheets}}
        <link rel="stylesheet" href="{{.}}">
{{- end}}
    </head>
    <body>
    </body>
    <script type="module">
        import {MarkdownUp} from '{{js .ModuleURL}}';
        MarkdownUp.run(window, '{{js .Target}}');
    </script>
</html>
`))

// Generator renders viewer stub documents.
type Generator struct {
	stylesheets []string
	moduleURL   string
	indexURL    string
}

// Option configures a Generator.
type Option func(*Generator)

// WithStylesheets replaces the stylesheet list.
func WithStylesheets(urls ...string) Option {
	return func(g *Generator) {
		g.stylesheets = append([]string(nil), urls...)
	}
}

// WithModuleURL sets the viewer module script URL.
func WithModuleURL(url string) Option {
	return func(g *Generator) {
		if url != "" {
			g.moduleURL = url
		}
	}
}

// WithIndexURL sets the URL the directory-index stub points the viewer at.
func WithIndexURL(url string) Option {
	return func(g *Generator) {
		if url != "" {
			g.indexURL = url
		}
	}
}

// New creates a Generator with the default viewer assets.
func New(opts ...Option) *Generator {
	g := &Generator{
		stylesheets: DefaultStylesheets,
		moduleURL:   DefaultModuleURL,
		indexURL:    DefaultIndexURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a stub that renders the named Markdown or HTML file.
// The name is relative to the stub's own URL; it is percent-encoded and then
// escaped for the script string literal.
func (g *Generator) Generate(name string) []byte {
	return g.render(urlquote.Path(name))
}

// GenerateIndex returns a stub that renders the directory index.
func (g *Generator) GenerateIndex() []byte {
	return g.render(g.indexURL)
}

func (g *Generator) render(target string) []byte {
	var buf bytes.Buffer
	data := struct {
		Stylesheets []string
		ModuleURL   string
		Target      string
	}{g.stylesheets, g.moduleURL, target}

	// Execute only fails on writer errors; bytes.Buffer does not return any.
	_ = stubTemplate.Execute(&buf, data)
	return buf.Bytes()
}
