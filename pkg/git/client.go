package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Commits record a fixed identity so cache histories are reproducible on
// machines without a configured git user.
const (
	commitName  = "notehub"
	commitEmail = "notehub@localhost"
)

// Client wraps git command execution in a single working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
// An empty workDir runs git in the process working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{
		WorkDir: workDir,
		Logger:  logger,
	}
}

// IsInstalled reports whether a git binary is available on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Run executes a raw git command in the working directory.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	return c.run(ctx, nil, args...)
}

func (c *Client) run(ctx context.Context, extraEnv []string, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository. Safe to re-run.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// Add adds files to the stage. Staging a deleted tracked file records
// its removal.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// Commit records staged changes under the fixed notehub identity.
// Signing and hooks are disabled: cache commits are bookkeeping, not
// user commits. Paths, when given, restrict the commit to those files.
func (c *Client) Commit(ctx context.Context, msg string, paths ...string) error {
	args := []string{"commit", "-m", msg, "--no-gpg-sign", "--no-verify"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	env := []string{
		"GIT_AUTHOR_NAME=" + commitName,
		"GIT_AUTHOR_EMAIL=" + commitEmail,
		"GIT_COMMITTER_NAME=" + commitName,
		"GIT_COMMITTER_EMAIL=" + commitEmail,
	}
	_, err := c.run(ctx, env, args...)
	return err
}

// HasChanges reports whether the given paths have uncommitted changes.
// With no paths it inspects the whole tree. Untracked files count.
func (c *Client) HasChanges(ctx context.Context, paths ...string) (bool, error) {
	args := []string{"status", "--porcelain"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	out, err := c.Run(ctx, args...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// ConfigGet reads a git config value, or "" when the key is unset or git
// is unavailable. Global restricts the lookup to the global scope.
func (c *Client) ConfigGet(ctx context.Context, key string, global bool) string {
	args := []string{"config"}
	if global {
		args = append(args, "--global")
	}
	args = append(args, key)
	out, err := c.Run(ctx, args...)
	if err != nil {
		return ""
	}
	return out
}

// RemoteURL returns the URL of the named remote, or "" when there is no
// such remote or no repository.
func (c *Client) RemoteURL(ctx context.Context, name string) string {
	out, err := c.Run(ctx, "remote", "get-url", name)
	if err != nil {
		return ""
	}
	return out
}

// TopLevel returns the root of the enclosing working tree, or "" when
// the working directory is not inside a git repository.
func (c *Client) TopLevel(ctx context.Context) string {
	out, err := c.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return ""
	}
	return out
}
