package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/notehub/pkg/git"
)

func TestFindAllMissingRoot(t *testing.T) {
	entries := FindAll(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	if len(entries) != 0 {
		t.Errorf("missing root should yield no entries, got %d", len(entries))
	}
}

func TestFindAllEmptyRoot(t *testing.T) {
	entries := FindAll(t.TempDir(), nil)
	if len(entries) != 0 {
		t.Errorf("empty root should yield no entries, got %d", len(entries))
	}
}

func TestFindAllSkipsInvalidEntries(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	root := t.TempDir()

	initEntry(t, root, 42, "valid")
	initEntry(t, root, 7, "also valid")

	repoDir := filepath.Join(root, "github.com", "acme", "notes")

	// Non-numeric leaf.
	if err := os.MkdirAll(filepath.Join(repoDir, "drafts"), 0755); err != nil {
		t.Fatal(err)
	}
	// Zero and negative leaves.
	for _, name := range []string{"0", "-3"} {
		if err := os.MkdirAll(filepath.Join(repoDir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Numeric leaf without version tracking.
	if err := os.MkdirAll(filepath.Join(repoDir, "99"), 0755); err != nil {
		t.Fatal(err)
	}
	// Plain file at leaf level.
	if err := os.WriteFile(filepath.Join(repoDir, "13"), []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}
	// Stray file higher up the tree.
	if err := os.WriteFile(filepath.Join(root, "github.com", "README"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	entries := FindAll(root, nil)
	if len(entries) != 2 {
		for _, e := range entries {
			t.Logf("found: %s", e.Path)
		}
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Lexical path order: "42" sorts before "7".
	if entries[0].Ref.Number != 42 || entries[1].Ref.Number != 7 {
		t.Errorf("unexpected order: %d, %d", entries[0].Ref.Number, entries[1].Ref.Number)
	}
}

func TestFindDirtyReturnsOnlyDivergedEntries(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	root := t.TempDir()

	initEntry(t, root, 1, "clean")
	edited := initEntry(t, root, 2, "will change")

	if err := os.WriteFile(edited.ContentPath(), []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}

	dirty := FindDirty(ctx, root, nil)
	if len(dirty) != 1 {
		t.Fatalf("expected 1 dirty entry, got %d", len(dirty))
	}
	if dirty[0].Ref.Number != 2 {
		t.Errorf("wrong entry reported dirty: %s", dirty[0].Ref.String())
	}
}

func TestFilter(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	root := t.TempDir()
	initEntry(t, root, 1, "a")
	initEntry(t, root, 2, "b")

	entries := FindAll(root, nil)

	kept, err := Filter(entries, "github.com/acme/**")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(kept) != 2 {
		t.Errorf("org pattern should keep both entries, got %d", len(kept))
	}

	kept, err = Filter(entries, "github.com/acme/notes/1")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(kept) != 1 || kept[0].Ref.Number != 1 {
		t.Errorf("exact pattern should keep entry 1, got %d entries", len(kept))
	}

	kept, err = Filter(entries, "")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(kept) != 2 {
		t.Errorf("empty pattern should keep everything, got %d", len(kept))
	}

	if _, err := Filter(entries, "[invalid"); err == nil {
		t.Error("malformed pattern should fail")
	}
}
