package cli

import (
	"github.com/spf13/cobra"

	"rinblog/internal/config"
	"rinblog/internal/content"
	"rinblog/internal/export"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	OutDir  string
	BaseURL string
	Watch   bool
	Drafts  bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the site to static files",
		Long: `Export the site to static files.

Renders every page for every supported language to the output directory,
copies static assets, and writes Atom feeds. The result can be hosted on
GitHub Pages or any plain file server.

Example:
  rinblog build --out ./site
  rinblog build --out ./site --base-url my-repo --watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", "", "output directory (default from config, ./site)")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "hosting sub-path, e.g. the GitHub Pages repository name")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "keep running and rebuild on content changes")
	cmd.Flags().BoolVar(&opts.Drafts, "drafts", false, "include posts with the 'draft' flag")

	return cmd
}

func runBuild(opts *BuildOptions) error {
	log := opts.Logger()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	outDir := cfg.OutDir
	if opts.OutDir != "" {
		outDir = opts.OutDir
	}

	store, err := content.Load(cfg.ContentDir, opts.Drafts, log)
	if err != nil {
		return err
	}
	collections := content.LoadCollections(cfg.CollectionsFile, log)

	builder, err := export.New(cfg, store, collections, outDir, opts.BaseURL, log)
	if err != nil {
		return err
	}

	if err := builder.Build(); err != nil {
		return err
	}

	if opts.Watch {
		return builder.Watch()
	}
	return nil
}
