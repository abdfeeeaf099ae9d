package markdownup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/markdownup/core/static"
)

// ErrPathNotExist is returned by ResolveLaunchPath for a missing path.
var ErrPathNotExist = errors.New("does not exist!")

// ResolveLaunchPath maps the command-line path to the served root and the
// URL path opened in the browser. A directory is served as is. For a file the
// root is its directory; Markdown files open through their viewer stub.
func ResolveLaunchPath(path string) (root, target string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%q %w", path, ErrPathNotExist)
		}
		return "", "", err
	}
	if info.IsDir() {
		return path, "", nil
	}

	name := filepath.Base(path)
	if ext := filepath.Ext(name); static.IsMarkdown(ext) {
		name = name[:len(name)-len(ext)] + static.ViewerExt
	}
	return filepath.Dir(path), name, nil
}
