package static

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"syscall"

	"github.com/dmitrymomot/markdownup/core/cache"
	"github.com/dmitrymomot/markdownup/core/logger"
	"github.com/dmitrymomot/markdownup/core/response"
	"github.com/dmitrymomot/markdownup/core/stub"
)

// Default index candidates, in lookup order.
var (
	DefaultHTMLIndexFiles     = []string{"index.html", "index.htm"}
	DefaultMarkdownIndexFiles = []string{"index.md", "README.md"}
)

// ViewerExt is the extension under which Markdown files are auto-stubbed:
// "/doc.html" renders "doc.md" when "doc.html" itself does not exist.
const ViewerExt = ".html"

// Resolver maps request paths under a served root to outcomes.
// It is safe for concurrent use.
type Resolver struct {
	fsys       fs.FS
	stubs      *stub.Generator
	routes     *cache.Memo[Outcome]
	logger     *slog.Logger
	strict     bool
	autoRender bool

	htmlIndexes     []string
	markdownIndexes []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStubGenerator sets the generator used for stub outcomes.
func WithStubGenerator(g *stub.Generator) Option {
	return func(r *Resolver) {
		if g != nil {
			r.stubs = g
		}
	}
}

// WithCache enables memoisation of resolved outcomes.
func WithCache(m *cache.Memo[Outcome]) Option {
	return func(r *Resolver) {
		r.routes = m
	}
}

// WithLogger sets the logger for resolution warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStrictPaths rejects "." segments instead of dropping them.
func WithStrictPaths(strict bool) Option {
	return func(r *Resolver) {
		r.strict = strict
	}
}

// WithAutoRender serves Markdown files requested directly as viewer stubs.
func WithAutoRender(enabled bool) Option {
	return func(r *Resolver) {
		r.autoRender = enabled
	}
}

// WithIndexFiles overrides the directory index candidates.
func WithIndexFiles(html, markdown []string) Option {
	return func(r *Resolver) {
		if len(html) > 0 {
			r.htmlIndexes = html
		}
		if len(markdown) > 0 {
			r.markdownIndexes = markdown
		}
	}
}

// NewResolver creates a resolver over fsys. Request paths are validated
// before any lookup; symlinks are resolved by fsys.
func NewResolver(fsys fs.FS, opts ...Option) *Resolver {
	r := &Resolver{
		fsys:            fsys,
		stubs:           stub.New(),
		logger:          logger.Discard(),
		htmlIndexes:     DefaultHTMLIndexFiles,
		markdownIndexes: DefaultMarkdownIndexFiles,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CacheStats returns route cache counters, or false when caching is disabled.
func (r *Resolver) CacheStats() (cache.Stats, bool) {
	if r.routes == nil {
		return cache.Stats{}, false
	}
	return r.routes.Stats(), true
}

// Resolve maps a request method and URL path (leading "/" included, query
// excluded) to an outcome.
//
// Malformed paths return ErrInvalidPath. Filesystem failures other than
// not-exist are returned as errors.
func (r *Resolver) Resolve(method, rawPath string) (Outcome, error) {
	if rawPath == "" {
		rawPath = "/"
	}
	rp, err := ValidatePath(strings.TrimPrefix(rawPath, "/"), r.strict)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	if r.routes != nil {
		key := cache.Key{Method: http.MethodGet, Path: rawPath}
		out, err = r.routes.GetOrCompute(key, func() (Outcome, bool, error) {
			o, err := r.resolve(rawPath, rp)
			return o, o.Kind != NotFound, err
		})
	} else {
		out, err = r.resolve(rawPath, rp)
	}
	if err != nil {
		return Outcome{}, err
	}

	if method != http.MethodGet && method != http.MethodHead &&
		out.Kind != Redirect && out.Kind != NotFound {
		return Outcome{Kind: MethodNotAllowed}, nil
	}
	return out, nil
}

func (r *Resolver) resolve(rawPath string, rp RequestPath) (Outcome, error) {
	info, err := fs.Stat(r.fsys, rp.FSName())
	switch {
	case isNotExist(err):
		return r.resolveViewerStub(rp)
	case err != nil:
		return Outcome{}, fmt.Errorf("stat %q: %w", rp.String(), err)
	case info.IsDir():
		return r.resolveDir(rawPath, rp)
	case info.Mode().IsRegular():
		return r.resolveFile(rp)
	default:
		return Outcome{Kind: NotFound}, nil
	}
}

func (r *Resolver) resolveDir(rawPath string, rp RequestPath) (Outcome, error) {
	if !strings.HasSuffix(rawPath, "/") {
		location := (&url.URL{Path: rawPath + "/"}).EscapedPath()
		return Outcome{Kind: Redirect, Location: location}, nil
	}

	for _, name := range r.htmlIndexes {
		content, ok, err := r.readFile(rp.Join(name))
		if err != nil {
			return Outcome{}, err
		}
		if ok {
			return fileOutcome(content, ContentTypeHTML), nil
		}
	}

	for _, name := range r.markdownIndexes {
		ok, err := r.isFile(rp.Join(name))
		if err != nil {
			return Outcome{}, err
		}
		if ok {
			return r.stubOutcome(name), nil
		}
	}

	if rp.IsRoot() {
		body := r.stubs.GenerateIndex()
		return Outcome{
			Kind:        DirectoryIndexStub,
			Body:        body,
			ContentType: ContentTypeHTML,
			ETag:        response.ETag(body),
		}, nil
	}
	return Outcome{Kind: NotFound}, nil
}

func (r *Resolver) resolveFile(rp RequestPath) (Outcome, error) {
	ext := path.Ext(rp.Base())
	if r.autoRender && IsMarkdown(ext) {
		return r.stubOutcome(rp.Base()), nil
	}

	contentType, ok := ContentTypeFor(ext)
	if !ok {
		r.logger.Warn("unknown content type",
			logger.Component("static"),
			logger.Path(rp.String()),
		)
		return Outcome{Kind: NotFound}, nil
	}

	content, found, err := r.readFile(rp)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return Outcome{Kind: NotFound}, nil
	}
	return fileOutcome(content, contentType), nil
}

// resolveViewerStub serves "name.html" as a stub for a sibling "name.md".
func (r *Resolver) resolveViewerStub(rp RequestPath) (Outcome, error) {
	base := rp.Base()
	if path.Ext(base) != ViewerExt {
		return Outcome{Kind: NotFound}, nil
	}

	stem := strings.TrimSuffix(base, ViewerExt)
	for _, ext := range MarkdownExts {
		ok, err := r.isFile(rp.Parent().Join(stem + ext))
		if err != nil {
			return Outcome{}, err
		}
		if ok {
			return r.stubOutcome(stem + ext), nil
		}
	}
	return Outcome{Kind: NotFound}, nil
}

func (r *Resolver) stubOutcome(target string) Outcome {
	body := r.stubs.Generate(target)
	return Outcome{
		Kind:        Stub,
		Target:      target,
		Body:        body,
		ContentType: ContentTypeHTML,
		ETag:        response.ETag(body),
	}
}

func fileOutcome(content []byte, contentType string) Outcome {
	return Outcome{
		Kind:        File,
		Body:        content,
		ContentType: contentType,
		ETag:        response.ETag(content),
	}
}

func (r *Resolver) isFile(rp RequestPath) (bool, error) {
	info, err := fs.Stat(r.fsys, rp.FSName())
	if isNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", rp.String(), err)
	}
	return info.Mode().IsRegular(), nil
}

// readFile returns false when rp is missing or is not a regular file.
func (r *Resolver) readFile(rp RequestPath) ([]byte, bool, error) {
	ok, err := r.isFile(rp)
	if err != nil || !ok {
		return nil, false, err
	}
	content, err := fs.ReadFile(r.fsys, rp.FSName())
	if isNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", rp.String(), err)
	}
	return content, true, nil
}

// isNotExist also treats a file used as a directory ("a.md/b") as missing.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
