package export

import (
	"time"

	"github.com/radovskyb/watcher"
)

// Watch blocks, rebuilding the site whenever the content directory changes.
// Events are batched (one rebuild per 200ms poll window).
func (b *Builder) Watch() error {
	b.log.Info("watching for changes", "dir", b.store.Dir())

	w := watcher.New()
	w.SetMaxEvents(1)

	go func() {
		for {
			select {
			case <-w.Event:
				if err := b.rebuild(); err != nil {
					b.log.Error("rebuild failed", "error", err)
				}
			case err := <-w.Error:
				b.log.Error("watcher error", "error", err)
			case <-w.Closed:
				return
			}
		}
	}()

	if err := w.AddRecursive(b.store.Dir()); err != nil {
		return err
	}

	return w.Start(time.Millisecond * 200)
}

func (b *Builder) rebuild() error {
	if err := b.store.Reload(); err != nil {
		return err
	}
	return b.Build()
}
