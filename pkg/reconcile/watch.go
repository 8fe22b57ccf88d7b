package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notehub/pkg/cache"
)

// DefaultDebounce batches editor save bursts into one sync cycle.
const DefaultDebounce = 2 * time.Second

// Watcher re-syncs dirty notes whenever cached content changes on disk.
// Every cycle re-discovers entries from scratch; no catalog survives
// between cycles, so entries created or removed while watching are
// picked up naturally.
type Watcher struct {
	*worker.BaseWorker

	Root     string
	Pattern  string
	Debounce time.Duration
	Logger   *slog.Logger

	// OnSync, when set before Start, receives each cycle's summary.
	OnSync func(Summary)

	reconciler *Reconciler
	watcher    *fsnotify.Watcher
	cancel     context.CancelFunc

	mu      sync.Mutex
	pending map[string]time.Time
	syncing bool
}

// NewWatcher creates a watcher over the cache root bound to a
// reconciler. A non-positive debounce falls back to DefaultDebounce.
func NewWatcher(rec *Reconciler, root, pattern string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("cache-watcher"),
		Root:       root,
		Pattern:    pattern,
		Debounce:   debounce,
		Logger:     logger,
		reconciler: rec,
	}
}

// Start begins watching and returns once the background loop is
// running. It fails when the cache root does not exist yet.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	if _, err := os.Stat(w.Root); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cache root %s does not exist", w.Root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.addTree(watcher); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.pending = make(map[string]time.Time)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// Stop requests shutdown and waits for the loop to exit.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

// State implements the lifecycle worker contract.
func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// addTree registers every directory under the root except git metadata;
// entry histories churn on every sync and must not feed the watcher.
func (w *Watcher) addTree(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if addErr := watcher.Add(path); addErr != nil {
			return fmt.Errorf("watch %s: %w", path, addErr)
		}
		return nil
	})
}

// run is the main event loop.
func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.Logger != nil && w.Logger.Enabled(ctx, slog.LevelDebug) {
				w.Logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else if w.Logger != nil {
				w.Logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.watcher.Close()

	ticker := time.NewTicker(w.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			if w.Logger != nil {
				w.Logger.Error("fsnotify error", "error", wErr)
			}

		case <-ticker.C:
			w.maybeSync(ctx)
		}
	}
}

// handleEvent records content changes and follows newly created
// directories. Only the tracked content file matters; marker writes and
// git churn stay invisible.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Base(event.Name) != ".git" {
				_ = w.watcher.Add(event.Name)
			}
			return
		}
	}

	if filepath.Base(event.Name) != cache.ContentFile {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if w.Logger != nil {
		w.Logger.Debug("content change detected", "path", event.Name, "op", event.Op.String())
	}

	w.mu.Lock()
	w.pending[filepath.Dir(event.Name)] = time.Now()
	w.mu.Unlock()
}

// maybeSync starts a sync cycle when changes have settled for a full
// debounce window and no cycle is already in flight.
func (w *Watcher) maybeSync(ctx context.Context) {
	w.mu.Lock()
	if w.syncing {
		w.mu.Unlock()
		return
	}
	due := false
	now := time.Now()
	for dir, at := range w.pending {
		if now.Sub(at) >= w.Debounce {
			delete(w.pending, dir)
			due = true
		}
	}
	if due {
		w.syncing = true
	}
	w.mu.Unlock()

	if !due {
		return
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer w.setSyncing(false)
		w.runCycle(ctx)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		if w.Logger != nil {
			w.Logger.Error("sync cycle failed", "error", err)
		}
	}))
}

// runCycle performs one full rescan-and-push pass.
func (w *Watcher) runCycle(ctx context.Context) {
	summary, err := w.reconciler.SyncDirty(ctx, w.Root, w.Pattern)
	if err != nil {
		if w.Logger != nil && !errors.Is(err, context.Canceled) {
			w.Logger.Error("sync cycle failed", "error", err)
		}
		return
	}

	if w.Logger != nil && len(summary.Results) > 0 {
		w.Logger.Info("sync cycle finished",
			"synced", summary.Synced, "skipped", summary.Skipped, "failed", summary.Failed)
	}
	if w.OnSync != nil {
		w.OnSync(summary)
	}
}

func (w *Watcher) setSyncing(v bool) {
	w.mu.Lock()
	w.syncing = v
	w.mu.Unlock()
}
