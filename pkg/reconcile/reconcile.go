// Package reconcile pushes locally edited notes back to the remote
// store. Conflict handling is last writer wins: a push overwrites the
// remote body unconditionally and records which remote revision it
// produced, nothing more.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/notehub/pkg/cache"
	"github.com/aretw0/notehub/pkg/core"
)

// Outcome classifies what happened to one note during a sync.
type Outcome int

const (
	// OutcomeSynced: content pushed and revision marker recorded.
	OutcomeSynced Outcome = iota
	// OutcomeClean: nothing to push and the push was not forced.
	OutcomeClean
	// OutcomeSkipped: the remote note is gone; the local entry is kept.
	OutcomeSkipped
	// OutcomeFailed: transport, auth or local bookkeeping failure.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSynced:
		return "synced"
	case OutcomeClean:
		return "clean"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Result is one note's sync outcome. Err carries the reason for
// OutcomeSkipped and OutcomeFailed.
type Result struct {
	Ref     core.Ref
	Outcome Outcome
	Err     error
}

// Summary aggregates a batch run.
type Summary struct {
	Synced  int
	Skipped int
	Failed  int
	Clean   int
	Results []Result
}

// OK reports overall success. Failures poison the batch; skipped and
// clean notes do not.
func (s Summary) OK() bool {
	return s.Failed == 0
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeSynced:
		s.Synced++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	case OutcomeClean:
		s.Clean++
	}
}

// Reconciler drives pushes against a note store.
type Reconciler struct {
	Store  core.Store
	Logger *slog.Logger

	mu       sync.RWMutex
	pushes   int
	failures int
}

// New creates a reconciler bound to a store.
func New(store core.Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{Store: store, Logger: logger}
}

// Push syncs a single entry.
//
// Local edits are committed first, so the pushed content always equals a
// committed baseline. A clean entry is left alone unless force is set.
// A note that disappeared remotely is reported as skipped and the local
// entry stays untouched; any other remote failure is a plain failure.
// After a successful push the remote modification time is recorded, and
// a failure to record it is itself a failure: without the marker the
// push cannot be told apart from a foreign edit later.
func (r *Reconciler) Push(ctx context.Context, entry *cache.Entry, force bool) Result {
	res := Result{Ref: entry.Ref}

	committed, err := entry.CommitIfDirty(ctx)
	if err != nil {
		return r.record(fail(res, fmt.Errorf("commit local edits: %w", err)))
	}
	if !committed && !force {
		res.Outcome = OutcomeClean
		return r.record(res)
	}

	content, err := entry.Content()
	if err != nil {
		return r.record(fail(res, err))
	}

	if err := r.Store.Update(ctx, entry.Ref, content); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			if r.Logger != nil {
				r.Logger.Warn("remote note gone, keeping local entry", "ref", entry.Ref.String())
			}
			res.Outcome = OutcomeSkipped
			res.Err = err
			return r.record(res)
		}
		return r.record(fail(res, err))
	}

	meta, err := r.Store.Metadata(ctx, entry.Ref)
	if err != nil {
		return r.record(fail(res, fmt.Errorf("content pushed, but reading back the remote revision failed: %w", err)))
	}
	if err := entry.SetLastKnownUpdatedAt(meta.UpdatedAt); err != nil {
		return r.record(fail(res, fmt.Errorf("content pushed, but recording the revision marker failed: %w", err)))
	}

	if r.Logger != nil {
		r.Logger.Info("note synced", "ref", entry.Ref.String(), "updated_at", meta.UpdatedAt)
	}
	res.Outcome = OutcomeSynced
	return r.record(res)
}

// SyncDirty discovers every dirty entry under root, optionally narrowed
// by a path pattern, and pushes each in discovery order. One failing
// note never blocks the rest. Cancellation stops between notes and
// returns the partial summary alongside the context error.
func (r *Reconciler) SyncDirty(ctx context.Context, root, pattern string) (Summary, error) {
	entries := cache.FindDirty(ctx, root, r.Logger)
	entries, err := cache.Filter(entries, pattern)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, entry := range entries {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		summary.add(r.Push(ctx, entry, false))
	}

	if r.Logger != nil {
		r.Logger.Debug("batch sync finished",
			"synced", summary.Synced, "skipped", summary.Skipped, "failed", summary.Failed)
	}
	return summary, nil
}

func fail(res Result, err error) Result {
	res.Outcome = OutcomeFailed
	res.Err = err
	return res
}

func (r *Reconciler) record(res Result) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.Outcome == OutcomeSynced {
		r.pushes++
	}
	if res.Outcome == OutcomeFailed {
		r.failures++
	}
	return res
}
