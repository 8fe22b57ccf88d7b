package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/git"
)

const (
	// ContentFile is the tracked note body inside an entry.
	ContentFile = "note.md"

	// markerFile records the remote modification time seen at the last
	// successful sync. It is deliberately untracked: recording a sync
	// must never make the entry dirty.
	markerFile = ".last-known-updated-at"
)

// ErrAlreadyInitialized reports an init attempt on a path that already
// holds an entry (or any other directory).
var ErrAlreadyInitialized = errors.New("cache entry already initialized")

// Entry is one cached note: a directory with its own git history for the
// content file, plus the untracked revision marker.
type Entry struct {
	Path   string
	Ref    core.Ref
	Logger *slog.Logger

	git *git.Client
}

// Open returns the entry for ref under root without touching the
// filesystem. Use Initialized to find out whether it exists.
func Open(root string, ref core.Ref, logger *slog.Logger) *Entry {
	path := EntryPath(root, ref)
	return &Entry{
		Path:   path,
		Ref:    ref,
		Logger: logger,
		git:    git.NewClient(path, logger),
	}
}

// Initialized reports whether the entry carries version tracking. The
// .git directory is the discovery signal; its absence means the entry
// does not exist as far as every other operation is concerned.
func (e *Entry) Initialized() bool {
	info, err := os.Stat(filepath.Join(e.Path, ".git"))
	return err == nil && info.IsDir()
}

// Init creates the entry: directory, content file, version tracking and
// the baseline commit. The new entry is clean.
//
// Init never overwrites local state. An initialized entry is rejected
// with ErrAlreadyInitialized, and so is a pre-existing directory of any
// other kind. On failure the created directory is removed, so a retry
// sees either a complete entry or none at all.
func (e *Entry) Init(ctx context.Context, body string) (err error) {
	if e.Initialized() {
		return fmt.Errorf("%s: %w", e.Path, ErrAlreadyInitialized)
	}
	if _, statErr := os.Stat(e.Path); statErr == nil {
		return fmt.Errorf("%s exists but carries no version tracking, remove it to re-create: %w",
			e.Path, ErrAlreadyInitialized)
	}

	if err = os.MkdirAll(e.Path, 0755); err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(e.Path)
		}
	}()

	if err = os.WriteFile(e.ContentPath(), []byte(body), 0644); err != nil {
		return fmt.Errorf("write note content: %w", err)
	}
	if err = e.git.Init(ctx); err != nil {
		return err
	}
	if err = e.git.Add(ctx, ContentFile); err != nil {
		return err
	}
	if err = e.git.Commit(ctx, snapshotCommitMessage(e.Ref), ContentFile); err != nil {
		return err
	}

	if e.Logger != nil {
		e.Logger.Debug("initialized cache entry", "ref", e.Ref.String(), "path", e.Path)
	}
	return nil
}

// ContentPath returns the location of the tracked note body.
func (e *Entry) ContentPath() string {
	return filepath.Join(e.Path, ContentFile)
}

// Content returns the current note body, which may have diverged from
// the committed baseline.
func (e *Entry) Content() (string, error) {
	b, err := os.ReadFile(e.ContentPath())
	if err != nil {
		return "", fmt.Errorf("read note content: %w", err)
	}
	return string(b), nil
}

// IsDirty reports whether the content differs from the last committed
// baseline. Purely local; the untracked marker never counts.
func (e *Entry) IsDirty(ctx context.Context) (bool, error) {
	return e.git.HasChanges(ctx, ContentFile)
}

// CommitIfDirty commits the current content as the new baseline and
// reports whether a commit happened. It is the only operation that
// clears dirtiness and it never contacts the remote.
func (e *Entry) CommitIfDirty(ctx context.Context) (bool, error) {
	dirty, err := e.IsDirty(ctx)
	if err != nil || !dirty {
		return false, err
	}
	if err := e.git.Add(ctx, ContentFile); err != nil {
		return false, err
	}
	if err := e.git.Commit(ctx, updateCommitMessage(e.Ref), ContentFile); err != nil {
		return false, err
	}
	if e.Logger != nil {
		e.Logger.Debug("committed note baseline", "ref", e.Ref.String())
	}
	return true, nil
}

// LastKnownUpdatedAt returns the remote modification time recorded at
// the last successful sync, or the zero time when the note has never
// been synced from this entry.
func (e *Entry) LastKnownUpdatedAt() (time.Time, error) {
	b, err := os.ReadFile(filepath.Join(e.Path, markerFile))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read revision marker: %w", err)
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(b)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse revision marker: %w", err)
	}
	return t, nil
}

// SetLastKnownUpdatedAt records the remote modification time. The write
// is atomic so a crash never leaves a torn marker.
func (e *Entry) SetLastKnownUpdatedAt(t time.Time) error {
	v := t.UTC().Format(time.RFC3339) + "\n"
	if err := atomic.WriteFile(filepath.Join(e.Path, markerFile), strings.NewReader(v)); err != nil {
		return fmt.Errorf("write revision marker: %w", err)
	}
	return nil
}
