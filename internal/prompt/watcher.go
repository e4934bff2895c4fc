package prompt

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/camberhealth/clinsum/internal/platform/logger"
)

// Watcher triggers a registry reload when the prompt directory changes.
// Events are debounced because editors and deploy tooling emit bursts of
// writes for a single logical change. A reload failure only logs; the
// serving index is untouched.
type Watcher struct {
	reg      *Registry
	log      *logger.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

func NewWatcher(reg *Registry, debounce time.Duration, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(reg.Dir()); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		reg:      reg,
		log:      log.With("component", "PromptWatcher"),
		debounce: debounce,
		fsw:      fsw,
	}, nil
}

// Start blocks until ctx is cancelled. Run it in its own goroutine.
func (w *Watcher) Start(ctx context.Context) {
	w.log.Info("Watching prompt directory", "dir", w.reg.Dir(), "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("Prompt directory changed", "path", event.Name, "op", event.Op.String())
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("Prompt watcher error", "error", err)
		case <-timer.C:
			pending = false
			if err := w.reg.Reload(); err != nil {
				w.log.Error("Hot reload failed, serving previous prompt index", "error", err)
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
