package markdownup_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/markdownup/app/markdownup"
	"github.com/dmitrymomot/markdownup/core/logger"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newApp(t *testing.T, root string, tweak func(*markdownup.Config)) *markdownup.App {
	t.Helper()
	cfg := markdownup.DefaultConfig()
	cfg.Root = root
	cfg.Quiet = true
	if tweak != nil {
		tweak(&cfg)
	}
	app, err := markdownup.New(cfg, markdownup.WithLogger(logger.Discard()))
	require.NoError(t, err)
	return app
}

func do(app *markdownup.App, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)
	return w
}

func TestReadmeRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"README.md": "# Hello"})
	app := newApp(t, root, nil)

	w := do(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "MarkdownUp.run(window, 'README.md');")

	w = do(app, http.MethodGet, "/markdown_up_index", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "[README.md](#url=README.md)")

	w = do(app, http.MethodGet, "/README.md", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# Hello", w.Body.String())
}

func TestEmptyRoot(t *testing.T) {
	t.Parallel()

	app := newApp(t, t.TempDir(), func(cfg *markdownup.Config) {
		cfg.IndexFormat = "json"
	})

	w := do(app, http.MethodGet, "/markdown_up_index", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":""}`, w.Body.String())

	w = do(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MarkdownUp.run(window, 'markdown_up_index');")
}

func TestTraversalRejected(t *testing.T) {
	t.Parallel()

	app := newApp(t, t.TempDir(), nil)

	w := do(app, http.MethodGet, "/%2E%2E/etc/passwd", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"InvalidPath"}`, w.Body.String())

	w = do(app, http.MethodGet, "/markdown_up_index?path=../etc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"InvalidPath"}`, w.Body.String())
}

func TestDirectoryWithoutIndex(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"sub/notes.txt": "notes"})
	app := newApp(t, root, nil)

	w := do(app, http.MethodGet, "/sub/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", w.Body.String())

	w = do(app, http.MethodGet, "/markdown_up_index?path=missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"FileNotFound"}`, w.Body.String())
}

func TestDirectoryRedirectAndIndex(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"sub/index.html": "<h1>Sub</h1>"})
	app := newApp(t, root, nil)

	w := do(app, http.MethodGet, "/sub?x=1", "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/sub/?x=1", w.Header().Get("Location"))

	w = do(app, http.MethodGet, "/sub/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<h1>Sub</h1>", w.Body.String())

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	req := httptest.NewRequest(http.MethodGet, "/sub/", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestIndexEscaping(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a(b)[c].md": "# Odd"})
	app := newApp(t, root, nil)

	w := do(app, http.MethodGet, "/markdown_up_index", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `[a\(b\)\[c\].md](#url=a%28b%29%5Bc%5D.md)`)
}

var indexLink = regexp.MustCompile(`\]\(#url=([^)]*)\)`)

// indexTargets returns the decoded #url= targets of a rendered index.
func indexTargets(t *testing.T, body string) []string {
	t.Helper()
	var targets []string
	for _, m := range indexLink.FindAllStringSubmatch(body, -1) {
		target, err := url.PathUnescape(m[1])
		require.NoError(t, err)
		targets = append(targets, target)
	}
	return targets
}

func getPath(app *markdownup.App, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/" + path
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)
	return w
}

func TestIndexLinksResolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a(b)[c].md":              "# Odd",
		"docs/sub dir/note[1].md": "# Note",
	})
	app := newApp(t, root, nil)

	w := do(app, http.MethodGet, "/markdown_up_index", "")
	require.Equal(t, http.StatusOK, w.Code)
	targets := indexTargets(t, w.Body.String())
	require.Equal(t, []string{"a(b)[c].md", "markdown_up_index?path=docs"}, targets)

	file := getPath(app, targets[0])
	assert.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "# Odd", file.Body.String())

	w = do(app, http.MethodGet, "/"+targets[1], "")
	require.Equal(t, http.StatusOK, w.Code)
	targets = indexTargets(t, w.Body.String())
	require.Equal(t, []string{"markdown_up_index?path=docs/sub%20dir"}, targets)

	w = do(app, http.MethodGet, "/"+targets[0], "")
	require.Equal(t, http.StatusOK, w.Code)
	targets = indexTargets(t, w.Body.String())
	require.Equal(t, []string{"markdown_up_index?path=docs", "docs/sub dir/note[1].md"}, targets)

	nested := getPath(app, targets[1])
	assert.Equal(t, http.StatusOK, nested.Code)
	assert.Equal(t, "# Note", nested.Body.String())
}

func TestSymlinksAreFollowed(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	writeFiles(t, outside, map[string]string{"shared.md": "# Shared"})

	root := t.TempDir()
	if err := os.Symlink(filepath.Join(outside, "shared.md"), filepath.Join(root, "shared.md")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	app := newApp(t, root, nil)

	w := do(app, http.MethodGet, "/shared.md", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# Shared", w.Body.String())

	w = do(app, http.MethodGet, "/%2E%2E/"+filepath.Base(outside)+"/shared.md", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"README.md": "# Hello"})
	app := newApp(t, root, nil)

	w := do(app, http.MethodPost, "/README.md", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))

	w = do(app, http.MethodPost, "/markdown_up_index", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Header().Get("Allow"), http.MethodGet)
}

func TestViewerStub(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"docs/guide.md": "# Guide"})
	app := newApp(t, root, nil)

	w := do(app, http.MethodGet, "/docs/guide.html", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MarkdownUp.run(window, 'guide.md');")
}

func TestBackendActions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"markdown-up.json": `{
			"scripts": [{
				"script": "api/hello.js",
				"globals": {"greeting": "Hello"},
				"apis": [
					{"name": "hello", "methods": ["POST"]},
					{"name": "boom"},
					{"name": "odd", "function": "oddStatus"}
				]
			}]
		}`,
		"api/hello.js": `
function hello(request) {
	backendAddHeader('X-Greeter', 'goja');
	return {message: greeting + ', ' + request.name};
}
function oddStatus() {
	apiError("Odd", 42);
}
function boom() {
	throw new Error('/secret/path exploded');
}
`,
	})
	app := newApp(t, root, nil)

	w := do(app, http.MethodPost, "/hello", `{"name":"World"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Hello, World"}`, w.Body.String())
	assert.Equal(t, "goja", w.Header().Get("X-Greeter"))

	w = do(app, http.MethodGet, "/hello", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = do(app, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "/secret/path")

	w = do(app, http.MethodGet, "/odd", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", w.Body.String())
}

func TestBackendConflict(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"markdown-up.json": `{"scripts":[{"script":"a.js","apis":[{"name":"markdown_up_index"}]}]}`,
		"a.js":             `function markdown_up_index() { return {}; }`,
	})

	cfg := markdownup.DefaultConfig()
	cfg.Root = root
	_, err := markdownup.New(cfg, markdownup.WithLogger(logger.Discard()))
	assert.ErrorIs(t, err, markdownup.ErrActionConflict)
}

func TestExplicitBackendConfigMustExist(t *testing.T) {
	t.Parallel()

	cfg := markdownup.DefaultConfig()
	cfg.Root = t.TempDir()
	cfg.BackendConfig = filepath.Join(cfg.Root, "missing.json")
	_, err := markdownup.New(cfg, markdownup.WithLogger(logger.Discard()))
	assert.Error(t, err)
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"file.md": "# File"})

	cfg := markdownup.DefaultConfig()
	cfg.Root = filepath.Join(root, "file.md")
	_, err := markdownup.New(cfg, markdownup.WithLogger(logger.Discard()))
	assert.ErrorIs(t, err, markdownup.ErrRootNotDirectory)

	cfg.Root = root
	cfg.IndexFormat = "xml"
	_, err = markdownup.New(cfg, markdownup.WithLogger(logger.Discard()))
	assert.Error(t, err)
}

func TestMetricsAndRouteCache(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"README.md": "# Hello"})
	app := newApp(t, root, func(cfg *markdownup.Config) {
		cfg.Release = true
		cfg.Metrics = true
	})

	for range 3 {
		assert.Equal(t, http.StatusOK, do(app, http.MethodGet, "/", "").Code)
	}

	w := do(app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `markdownup_http_requests_total{method="GET",route="static",status="200"} 3`)
	assert.Contains(t, body, "markdownup_route_cache_hits_total 2")
	assert.Contains(t, body, "markdownup_route_cache_misses_total 1")
	assert.Contains(t, body, "markdownup_route_cache_entries 1")
}

func TestMetricsDisabledByDefault(t *testing.T) {
	t.Parallel()

	app := newApp(t, t.TempDir(), nil)
	assert.Equal(t, http.StatusNotFound, do(app, http.MethodGet, "/metrics", "").Code)
}

func TestURLEscapesPath(t *testing.T) {
	t.Parallel()

	app := newApp(t, t.TempDir(), nil)
	assert.Equal(t, "http://127.0.0.1:8080/", app.URL(""))
	assert.Equal(t, "http://127.0.0.1:8080/a%23b%20c.html", app.URL("a#b c.html"))
	assert.Equal(t, "http://127.0.0.1:8080/x%3Fy.md", app.URL("x?y.md"))
}

func TestRunLaunchURLWithReservedCharacters(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a#b.txt": "hash"})
	app := newApp(t, root, func(cfg *markdownup.Config) {
		cfg.Port = 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	<-app.Ready()

	resp, err := http.Get(app.URL("a#b.txt"))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "hash", string(body))

	cancel()
	assert.NoError(t, <-done)
}

func TestRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"README.md": "# Hello"})
	app := newApp(t, root, func(cfg *markdownup.Config) {
		cfg.Port = 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case <-app.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(app.URL("README.md"))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "# Hello", string(body))

	cancel()
	assert.NoError(t, <-done)
}
