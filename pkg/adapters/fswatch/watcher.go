// Package fswatch reports changes to a single file using fsnotify.
package fswatch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/user/imgload/pkg/ports"
)

// DefaultDebounce is how long the file must stay quiet before a change is
// reported. Editors often truncate and then write in separate steps.
const DefaultDebounce = 50 * time.Millisecond

// Watcher signals on Changes whenever the watched file is written,
// created or renamed into place. Bursts of events are coalesced.
type Watcher struct {
	path     string
	debounce time.Duration
	fw       *fsnotify.Watcher
	logger   ports.Logger
	changes  chan struct{}
	done     chan struct{}
}

// New starts watching path until ctx is done or Close is called. The
// parent directory is watched so that replace-by-rename saves are seen.
// A negative debounce means DefaultDebounce.
func New(ctx context.Context, path string, debounce time.Duration, logger ports.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce < 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		fw:       fw,
		logger:   logger.WithComponent("watch"),
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

// Changes returns the channel signalled after each settled change.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Event %s on %s", ev.Op, ev.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watch error: %v", err)

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// a change is already pending
			}
		}
	}
}
