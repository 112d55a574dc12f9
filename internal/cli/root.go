// Package cli implements the rinblog command line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the rinblog CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rinblog",
		Short: "A personal Markdown blog",
		Long:  "RinBlog renders Markdown posts with front matter, serves them with anonymous comments, and exports the site to static files.",
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "rinblog.json", "path to the site config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))

	return cmd
}

// Logger builds the process logger honoring --verbose.
func (o *RootOptions) Logger() *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
