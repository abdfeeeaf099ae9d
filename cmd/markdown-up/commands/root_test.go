package commands_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/markdownup/app/markdownup"
	"github.com/dmitrymomot/markdownup/cmd/markdown-up/commands"
)

func TestMissingPath(t *testing.T) {
	cmd := commands.NewRootCommand()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing"), "-n"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, markdownup.ErrPathNotExist)
}

func TestServeFileOpensViewer(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("# Notes"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opened string
	var status int
	orig := commands.OpenURL
	commands.OpenURL = func(url string) error {
		defer cancel()
		opened = url
		resp, err := http.Get(url)
		if err != nil {
			return err
		}
		resp.Body.Close()
		status = resp.StatusCode
		return nil
	}
	t.Cleanup(func() { commands.OpenURL = orig })

	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{filepath.Join(root, "notes.md"), "-p", "0", "-t", "2"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/notes\.html$`, opened)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, out.String(), "markdown-up: Serving at "+opened+" ...")
}

func TestQuietNoBrowser(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orig := commands.OpenURL
	commands.OpenURL = func(string) error {
		t.Error("browser must not be opened")
		return nil
	}
	t.Cleanup(func() { commands.OpenURL = orig })

	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{root, "-p", "0", "-q", "-n"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Empty(t, out.String())
}
