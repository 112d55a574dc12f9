package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"

	"rinblog/internal/comments"
	"rinblog/internal/config"
	"rinblog/internal/content"
	"rinblog/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr   string
	Watch  bool
	Drafts bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog over HTTP",
		Long: `Serve the blog over HTTP.

Loads all Markdown posts into memory, opens the comment database (creating
it if it doesn't exist), and serves list, detail, group and feed pages.

Example:
  rinblog serve --addr :8000
  rinblog serve --watch --drafts`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "reload the content index on changes")
	cmd.Flags().BoolVar(&opts.Drafts, "drafts", false, "include posts with the 'draft' flag")

	return cmd
}

func runServe(opts *ServeOptions) error {
	log := opts.Logger()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}

	store, err := content.Load(cfg.ContentDir, opts.Drafts, log)
	if err != nil {
		return err
	}
	collections := content.LoadCollections(cfg.CollectionsFile, log)

	db, err := comments.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := server.New(cfg, store, collections, comments.NewService(db), log)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	if opts.Watch {
		go reloadOnChange(store, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// reloadOnChange swaps in a fresh content index whenever the content
// directory changes. Events are batched per poll window.
func reloadOnChange(store *content.Store, log *slog.Logger) {
	log.Info("watching for changes", "dir", store.Dir())

	w := watcher.New()
	w.SetMaxEvents(1)

	go func() {
		for {
			select {
			case <-w.Event:
				if err := store.Reload(); err != nil {
					log.Error("content reload failed", "error", err)
				} else {
					log.Info("content reloaded")
				}
			case err := <-w.Error:
				log.Error("watcher error", "error", err)
			case <-w.Closed:
				return
			}
		}
	}()

	if err := w.AddRecursive(store.Dir()); err != nil {
		log.Error("watcher setup failed", "error", err)
		return
	}

	if err := w.Start(time.Millisecond * 200); err != nil {
		log.Error("watcher failed", "error", err)
	}
}
