package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/notehub/pkg/git"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcherSyncsOnContentChange(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	store := newFakeStore()
	entry := initEntry(t, root, 42, "v1")

	summaries := make(chan Summary, 8)
	w := NewWatcher(New(store, nil), root, "", 50*time.Millisecond, nil)
	w.OnSync = func(s Summary) { summaries <- s }

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := w.Stop(stopCtx); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	}()

	editEntry(t, entry, "v2")

	if !waitFor(t, 5*time.Second, func() bool { return store.updateCount(42) >= 1 }) {
		t.Fatal("watcher never pushed the change")
	}

	select {
	case summary := <-summaries:
		if summary.Synced != 1 {
			t.Errorf("summary reports %d synced, want 1", summary.Synced)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no sync summary delivered")
	}

	if store.bodies[42] != "v2" {
		t.Errorf("remote body = %q, want %q", store.bodies[42], "v2")
	}
}

func TestWatcherRescansPerCycle(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	store := newFakeStore()
	entry := initEntry(t, root, 1, "a")

	w := NewWatcher(New(store, nil), root, "", 50*time.Millisecond, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = w.Stop(stopCtx)
	}()

	editEntry(t, entry, "b")
	if !waitFor(t, 5*time.Second, func() bool { return store.updateCount(1) >= 1 }) {
		t.Fatal("first change never synced")
	}

	// An entry created after the watcher started gets picked up by the
	// next cycle's rescan. The write repeats until the new directory's
	// watch is attached, so a missed first event cannot wedge the test.
	second := initEntry(t, root, 2, "x")
	if !waitFor(t, 10*time.Second, func() bool {
		editEntry(t, second, "y")
		return store.updateCount(2) >= 1
	}) {
		t.Fatal("entry created while watching never synced")
	}
}

func TestWatcherStartTwiceFails(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	initEntry(t, root, 1, "a")

	w := NewWatcher(New(newFakeStore(), nil), root, "", 50*time.Millisecond, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = w.Stop(stopCtx)
	}()

	if err := w.Start(ctx); err == nil {
		t.Error("second Start should fail")
	}
}

func TestWatcherMissingRootFails(t *testing.T) {
	w := NewWatcher(New(newFakeStore(), nil), "/definitely/not/here", "", 0, nil)
	if err := w.Start(context.Background()); err == nil {
		t.Error("Start over a missing root should fail")
	}
}
