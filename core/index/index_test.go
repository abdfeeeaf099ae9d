package index_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/markdownup/core/index"
	"github.com/dmitrymomot/markdownup/core/static"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestIndexRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"README.md":      "# Title",
		"zeta.markdown":  "# Zeta",
		"alpha.md":       "# Alpha",
		"page.html":      "<p>",
		"old.htm":        "<p>",
		"text.txt":       "Text",
		"image.svg":      "<svg>",
		".hidden.md":     "# Hidden",
		"dir/info.md":    "# Info",
		"dir2/info2.md":  "# Info 2",
		".git/HEAD":      "ref",
		"assets/app.css": "body{}",
	})

	l, err := index.New(os.DirFS(root)).Lookup("")
	require.NoError(t, err)

	assert.Equal(t, "", l.Path)
	assert.Empty(t, l.Parent)
	assert.Equal(t, []string{"README.md", "alpha.md", "zeta.markdown"}, l.Files)
	assert.Equal(t, []string{"old.htm", "page.html"}, l.HTMLFiles)
	assert.Equal(t, []string{"assets", "dir", "dir2"}, l.Directories)
}

func TestIndexSubdirectory(t *testing.T) {
	t.Parallel()

	ix := index.New(fstest.MapFS{
		"dir/README.md":      {Data: []byte("# Info")},
		"dir/dir2/README.md": {Data: []byte("# Info")},
	})

	l, err := ix.Lookup("dir")
	require.NoError(t, err)
	assert.Equal(t, "dir", l.Path)
	assert.Empty(t, l.Parent)
	assert.Equal(t, []string{"README.md"}, l.Files)
	assert.Equal(t, []string{"dir2"}, l.Directories)

	l, err = ix.Lookup("dir/dir2/")
	require.NoError(t, err)
	assert.Equal(t, "dir/dir2", l.Path)
	assert.Equal(t, "dir", l.Parent)
	assert.Empty(t, l.Directories)
}

func TestIndexCounts(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{}
	for _, name := range []string{"c.md", "a.md", "b.markdown", "d.md"} {
		fsys["docs/"+name] = &fstest.MapFile{Data: []byte("# x")}
	}
	for _, name := range []string{"z", "x", "y"} {
		fsys["docs/"+name+"/README.md"] = &fstest.MapFile{Data: []byte("# x")}
	}

	p, err := static.ValidatePath("docs", true)
	require.NoError(t, err)
	l, err := index.New(fsys).Index(p)
	require.NoError(t, err)
	assert.Len(t, l.Files, 4)
	assert.Len(t, l.Directories, 3)
	assert.IsNonDecreasing(t, l.Files)
	assert.IsNonDecreasing(t, l.Directories)
}

func TestIndexErrors(t *testing.T) {
	t.Parallel()

	ix := index.New(fstest.MapFS{"README.md": {Data: []byte("# Title")}}, index.WithStrictPaths(true))

	tests := []struct {
		name string
		path string
		err  error
	}{
		{name: "parent_segment", path: "../dir", err: static.ErrInvalidPath},
		{name: "absolute", path: "/etc", err: static.ErrInvalidPath},
		{name: "dot_strict", path: "./dir", err: static.ErrInvalidPath},
		{name: "missing", path: "dir", err: index.ErrFileNotFound},
		{name: "file", path: "README.md", err: index.ErrFileNotFound},
		{name: "below_file", path: "README.md/x", err: index.ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ix.Lookup(tt.path)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestIndexSymlinks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"real/README.md": "# Real",
		"target.md":      "# Target",
	})
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "target.md"), filepath.Join(root, "alias.md")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.md"), filepath.Join(root, "dangling.md")))

	l, err := index.New(os.DirFS(root)).Lookup("")
	require.NoError(t, err)
	assert.Equal(t, []string{"alias.md", "target.md"}, l.Files)
	assert.Equal(t, []string{"linked", "real"}, l.Directories)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := index.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, index.FormatMarkdown, f)

	f, err = index.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, index.FormatJSON, f)

	_, err = index.ParseFormat("xml")
	assert.Error(t, err)
}
