package index

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"slices"
	"strings"
	"syscall"

	"github.com/dmitrymomot/markdownup/core/response"
	"github.com/dmitrymomot/markdownup/core/static"
)

// ErrFileNotFound is returned for a well-formed path that does not name an
// existing directory. It renders as 404 {"error":"FileNotFound"}.
var ErrFileNotFound = response.NewActionError("FileNotFound").WithStatus(http.StatusNotFound)

// Listing is the classified content of one directory.
// Name lists are sorted and never include hidden entries.
type Listing struct {
	// Path is relative to the served root; "" is the root.
	Path string `json:"path"`
	// Parent is empty at the root and for top-level directories.
	Parent      string   `json:"parent,omitempty"`
	Files       []string `json:"files,omitempty"`
	HTMLFiles   []string `json:"htmlFiles,omitempty"`
	Directories []string `json:"directories,omitempty"`
}

// Indexer lists directories under a served root.
type Indexer struct {
	fsys   fs.FS
	strict bool
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithStrictPaths rejects "." segments in requested paths.
func WithStrictPaths(strict bool) Option {
	return func(ix *Indexer) {
		ix.strict = strict
	}
}

// New creates an indexer over fsys.
func New(fsys fs.FS, opts ...Option) *Indexer {
	ix := &Indexer{fsys: fsys}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Lookup validates raw and lists the directory it names.
func (ix *Indexer) Lookup(raw string) (Listing, error) {
	p, err := static.ValidatePath(raw, ix.strict)
	if err != nil {
		return Listing{}, err
	}
	return ix.Index(p)
}

// Index lists the directory at p. The directory is read once.
func (ix *Indexer) Index(p static.RequestPath) (Listing, error) {
	info, err := fs.Stat(ix.fsys, p.FSName())
	if isNotExist(err) {
		return Listing{}, ErrFileNotFound
	}
	if err != nil {
		return Listing{}, fmt.Errorf("stat %q: %w", p.String(), err)
	}
	if !info.IsDir() {
		return Listing{}, ErrFileNotFound
	}

	entries, err := fs.ReadDir(ix.fsys, p.FSName())
	if err != nil {
		return Listing{}, fmt.Errorf("read directory %q: %w", p.String(), err)
	}

	l := Listing{Path: p.String()}
	if !p.IsRoot() {
		l.Parent = p.Parent().String()
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		isDir, isFile, err := ix.classify(p, entry)
		if err != nil {
			return Listing{}, err
		}
		switch ext := path.Ext(name); {
		case isDir:
			l.Directories = append(l.Directories, name)
		case isFile && static.IsMarkdown(ext):
			l.Files = append(l.Files, name)
		case isFile && static.IsHTML(ext):
			l.HTMLFiles = append(l.HTMLFiles, name)
		}
	}

	slices.Sort(l.Files)
	slices.Sort(l.HTMLFiles)
	slices.Sort(l.Directories)
	return l, nil
}

// classify follows symlinks; dangling links are neither files nor directories.
func (ix *Indexer) classify(dir static.RequestPath, entry fs.DirEntry) (isDir, isFile bool, err error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), entry.Type().IsRegular(), nil
	}

	target := dir.Join(entry.Name())
	info, err := fs.Stat(ix.fsys, target.FSName())
	if isNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("stat %q: %w", target.String(), err)
	}
	return info.IsDir(), info.Mode().IsRegular(), nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
