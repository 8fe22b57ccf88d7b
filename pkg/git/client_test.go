package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestClient_Init(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".git")); os.IsNotExist(err) {
		t.Error(".git directory not created")
	}
}

func TestClient_CommitAndHasChanges(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	if err := client.Init(ctx); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	notePath := filepath.Join(tmpDir, "note.md")
	if err := os.WriteFile(notePath, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	// Untracked file counts as a change.
	dirty, err := client.HasChanges(ctx, "note.md")
	if err != nil {
		t.Fatalf("HasChanges failed: %v", err)
	}
	if !dirty {
		t.Error("untracked file should report changes")
	}

	if err := client.Add(ctx, "note.md"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Commit must succeed without any user-level git identity configured.
	if err := client.Commit(ctx, "initial snapshot"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	dirty, err = client.HasChanges(ctx, "note.md")
	if err != nil {
		t.Fatalf("HasChanges failed: %v", err)
	}
	if dirty {
		t.Error("freshly committed file should be clean")
	}

	if err := os.WriteFile(notePath, []byte("hello, edited"), 0644); err != nil {
		t.Fatalf("Failed to rewrite file: %v", err)
	}
	dirty, err = client.HasChanges(ctx, "note.md")
	if err != nil {
		t.Fatalf("HasChanges failed: %v", err)
	}
	if !dirty {
		t.Error("modified file should report changes")
	}
}

func TestClient_HasChangesScopedToPath(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	if err := client.Init(ctx); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "note.md"), []byte("tracked"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := client.Add(ctx, "note.md"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := client.Commit(ctx, "initial snapshot", "note.md"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// A sibling file outside the path scope must not register.
	if err := os.WriteFile(filepath.Join(tmpDir, "unrelated.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	dirty, err := client.HasChanges(ctx, "note.md")
	if err != nil {
		t.Fatalf("HasChanges failed: %v", err)
	}
	if dirty {
		t.Error("changes outside the scoped path should not count")
	}

	dirty, err = client.HasChanges(ctx)
	if err != nil {
		t.Fatalf("HasChanges failed: %v", err)
	}
	if !dirty {
		t.Error("unscoped check should see the new file")
	}
}

func TestClient_ConfigGetUnsetKey(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	if err := client.Init(ctx); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	if got := client.ConfigGet(ctx, "notehub.nosuchkey", false); got != "" {
		t.Errorf("unset key should resolve to empty string, got %q", got)
	}

	if _, err := client.Run(ctx, "config", "notehub.repo", "acme/notes"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if got := client.ConfigGet(ctx, "notehub.repo", false); got != "acme/notes" {
		t.Errorf("ConfigGet = %q, want %q", got, "acme/notes")
	}
}

func TestClient_RemoteURL(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	if err := client.Init(ctx); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	if got := client.RemoteURL(ctx, "origin"); got != "" {
		t.Errorf("missing remote should resolve to empty string, got %q", got)
	}

	if _, err := client.Run(ctx, "remote", "add", "origin", "git@github.com:acme/notes.git"); err != nil {
		t.Fatalf("remote add failed: %v", err)
	}
	if got := client.RemoteURL(ctx, "origin"); got != "git@github.com:acme/notes.git" {
		t.Errorf("RemoteURL = %q", got)
	}
}
