package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/markdownup/app/markdownup"
	"github.com/dmitrymomot/markdownup/core/config"
)

// OpenURL launches the browser. Tests replace it.
var OpenURL = browser.OpenURL

// NewRootCommand creates the markdown-up command. Flag defaults come from
// MARKDOWNUP_* environment variables.
func NewRootCommand() *cobra.Command {
	cfg := markdownup.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "markdown-up [path]",
		Short:         "Serve a directory of Markdown files to the browser",
		Long:          "markdown-up serves a local directory (or the directory of a file) and opens the Markdown viewer in the browser.",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyEnv(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), cfg, path)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "server port")
	flags.IntVarP(&cfg.Threads, "threads", "t", cfg.Threads, "maximum concurrent requests")
	flags.BoolVarP(&cfg.NoBrowser, "no-browser", "n", cfg.NoBrowser, "don't open a web browser")
	flags.BoolVarP(&cfg.Release, "release", "r", cfg.Release, "release mode (cache routes)")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "hide access logging")

	return cmd
}

// applyEnv loads the environment and keeps explicitly set flags on top.
func applyEnv(cmd *cobra.Command, cfg *markdownup.Config) error {
	flagged := *cfg

	var env markdownup.Config
	if err := config.Load(&env); err != nil {
		return err
	}
	*cfg = env

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = flagged.Port
	}
	if flags.Changed("threads") {
		cfg.Threads = flagged.Threads
	}
	if flags.Changed("no-browser") {
		cfg.NoBrowser = flagged.NoBrowser
	}
	if flags.Changed("release") {
		cfg.Release = flagged.Release
	}
	if flags.Changed("quiet") {
		cfg.Quiet = flagged.Quiet
	}
	return nil
}

func run(ctx context.Context, out io.Writer, cfg markdownup.Config, path string) error {
	root, target, err := markdownup.ResolveLaunchPath(path)
	if err != nil {
		return err
	}
	cfg.Root = root

	app, err := markdownup.New(cfg)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Run(ctx)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-app.Ready():
		}

		url := app.URL(target)
		if !cfg.Quiet {
			fmt.Fprintf(out, "markdown-up: Serving at %s ...\n", url)
		}
		if !cfg.NoBrowser {
			if err := OpenURL(url); err != nil {
				fmt.Fprintf(out, "markdown-up: failed to open browser: %v\n", err)
			}
		}
		return nil
	})

	return g.Wait()
}
