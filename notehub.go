package notehub

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/aretw0/notehub/internal/editor"
	"github.com/aretw0/notehub/pkg/cache"
	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/reconcile"
)

// --- Resolution ---

// ResolveRef turns a note ident into a full reference. Digits address
// an issue number directly; anything else is treated as a
// case-insensitive title pattern matched against the target's open
// notes, first match wins.
func ResolveRef(ctx context.Context, store core.Store, target core.Target, ident string) (core.Ref, error) {
	if number, err := strconv.Atoi(ident); err == nil {
		return core.NewRef(target, number)
	}

	lister, ok := store.(core.Lister)
	if !ok {
		return core.Ref{}, fmt.Errorf("note ident %q is not a number and this store cannot list notes", ident)
	}

	re, err := regexp.Compile("(?i)" + ident)
	if err != nil {
		return core.Ref{}, fmt.Errorf("invalid note ident pattern %q: %w", ident, err)
	}

	issues, err := lister.ListOpen(ctx, target)
	if err != nil {
		return core.Ref{}, err
	}

	var matches []core.Issue
	for _, issue := range issues {
		if re.MatchString(issue.Title) {
			matches = append(matches, issue)
		}
	}
	if len(matches) == 0 {
		return core.Ref{}, fmt.Errorf("no open note matches %q in %s", ident, target.Identifier())
	}
	if len(matches) > 1 {
		fmt.Fprintf(os.Stderr, "Warning: %q matched %d notes, using [#%d] %s\n",
			ident, len(matches), matches[0].Number, matches[0].Title)
	}

	return core.NewRef(target, matches[0].Number)
}

// --- Operations ---

// Edit runs the interactive edit workflow for one note: resolve the
// ident, make sure a local cache entry exists (seeding it from the
// remote on first contact), open the editor, and push the result.
//
// The push is not forced, so closing the editor without changes makes
// no remote calls. An interrupt before or while editing returns
// core.ErrCancelled and leaves any edits cached locally for a later
// sync.
func Edit(ctx context.Context, target core.Target, ident string, opts ...Option) (reconcile.Result, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return reconcile.Result{}, err
	}

	ref, err := ResolveRef(ctx, o.store, target, ident)
	if err != nil {
		return reconcile.Result{}, err
	}

	entry := cache.Open(o.cacheRoot, ref, o.logger)
	if !entry.Initialized() {
		issue, err := o.store.Get(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return reconcile.Result{}, core.ErrCancelled
			}
			return reconcile.Result{}, fmt.Errorf("fetch %s: %w", ref, err)
		}
		// Init cleans up after itself, so a cancellation mid-setup
		// leaves no half-initialized entry behind.
		if err := entry.Init(ctx, issue.Body); err != nil {
			if ctx.Err() != nil {
				return reconcile.Result{}, core.ErrCancelled
			}
			return reconcile.Result{}, err
		}
		if err := entry.SetLastKnownUpdatedAt(issue.UpdatedAt); err != nil {
			return reconcile.Result{}, err
		}
	}
	if ctx.Err() != nil {
		return reconcile.Result{}, core.ErrCancelled
	}

	if err := editor.Launch(editor.Resolve(o.editor), entry.ContentPath(), o.logger); err != nil {
		if ctx.Err() != nil {
			return reconcile.Result{}, core.ErrCancelled
		}
		return reconcile.Result{}, err
	}
	if ctx.Err() != nil {
		return reconcile.Result{}, core.ErrCancelled
	}

	return reconcile.New(o.store, o.logger).Push(ctx, entry, false), nil
}

// Push syncs a single cached note. With force set, a clean note is
// pushed anyway, re-asserting the local content remotely.
func Push(ctx context.Context, ref core.Ref, force bool, opts ...Option) (reconcile.Result, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return reconcile.Result{}, err
	}

	entry := cache.Open(o.cacheRoot, ref, o.logger)
	if !entry.Initialized() {
		return reconcile.Result{}, fmt.Errorf("no cache entry for %s, run 'notehub edit %d' first",
			ref, ref.Number)
	}

	return reconcile.New(o.store, o.logger).Push(ctx, entry, force), nil
}

// SyncCached pushes every dirty cached note, narrowed by WithPattern
// when given. Per-note failures are collected, never fatal.
func SyncCached(ctx context.Context, opts ...Option) (reconcile.Summary, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return reconcile.Summary{}, err
	}

	return reconcile.New(o.store, o.logger).SyncDirty(ctx, o.cacheRoot, o.pattern)
}

// FindDirty lists the cached notes whose content diverges from its
// committed baseline.
func FindDirty(ctx context.Context, opts ...Option) ([]*cache.Entry, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	entries := cache.FindDirty(ctx, o.cacheRoot, o.logger)
	return cache.Filter(entries, o.pattern)
}

// Watch blocks until ctx ends, re-syncing dirty notes as cached content
// changes. Each cycle reports through WithSyncHook.
func Watch(ctx context.Context, opts ...Option) error {
	o, err := buildOptions(opts)
	if err != nil {
		return err
	}

	w := reconcile.NewWatcher(reconcile.New(o.store, o.logger), o.cacheRoot, o.pattern, o.debounce, o.logger)
	w.OnSync = o.onSync

	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.Stop(stopCtx)
}
