// Package gh talks to GitHub through the gh CLI. It is the only place
// that knows how remote failures look; everything leaving this package
// is classified, so callers branch on error identity instead of parsing
// error text.
package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/notehub/pkg/core"
)

// Client shells out to the gh binary with a per-host prepared
// authentication environment.
type Client struct {
	// Bin is the gh executable, "gh" by default.
	Bin    string
	Logger *slog.Logger
}

var (
	_ core.Store  = (*Client)(nil)
	_ core.Lister = (*Client)(nil)
)

// NewClient creates a gh-backed note store.
func NewClient(logger *slog.Logger) *Client {
	return &Client{Bin: "gh", Logger: logger}
}

// ComponentType identifies this store in introspection output.
func (c *Client) ComponentType() string {
	return "gh"
}

// CmdError is a failed gh invocation with its captured stderr.
type CmdError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CmdError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no error output"
	}
	return fmt.Sprintf("gh %s failed (exit %d): %s", strings.Join(e.Args, " "), e.ExitCode, msg)
}

// run executes gh with the authentication environment for host. The
// stdin reader, when non-nil, is piped to the process.
func (c *Client) run(ctx context.Context, host string, stdin io.Reader, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing gh", "args", args, "host", host)
	}

	cmd := exec.CommandContext(ctx, c.Bin, args...)
	cmd.Env = prepareEnv(host, os.Environ())
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		cmdErr := &CmdError{Args: args, ExitCode: exitCode, Stderr: stderr.String()}
		return stdout.String(), classify(host, cmdErr, err)
	}

	return stdout.String(), nil
}

// classify tags a gh failure by what went wrong, not how gh phrased it.
// This is the single place allowed to inspect gh's error text.
func classify(host string, cmdErr *CmdError, cause error) error {
	if errors.Is(cause, exec.ErrNotFound) {
		return fmt.Errorf("gh CLI not found, install it from https://cli.github.com/: %w", cause)
	}

	stderr := strings.ToLower(cmdErr.Stderr)
	switch {
	case strings.Contains(stderr, "http 404") ||
		strings.Contains(stderr, "not found") ||
		strings.Contains(stderr, "could not resolve to an issue"):
		return fmt.Errorf("%s: %w", strings.TrimSpace(cmdErr.Stderr), core.ErrNotFound)

	case strings.Contains(stderr, "http 401") ||
		strings.Contains(stderr, "authentication") ||
		strings.Contains(stderr, "gh auth login"):
		return fmt.Errorf("authentication failed for %s, run: gh auth login --hostname %s: %w",
			host, host, cmdErr)

	case strings.Contains(stderr, "could not resolve") ||
		strings.Contains(stderr, "dial tcp") ||
		strings.Contains(stderr, "connection refused") ||
		strings.Contains(stderr, "no such host"):
		return fmt.Errorf("cannot reach GitHub server at %s: %w", host, cmdErr)
	}

	return cmdErr
}

// apiArgs builds a gh api invocation, routed to the target's host when
// it is not the public instance.
func apiArgs(target core.Target, path string, extra ...string) []string {
	args := []string{"api", path}
	if target.Host != core.DefaultHost {
		args = append(args, "--hostname", target.Host)
	}
	return append(args, extra...)
}

// repoArg renders a target for gh's --repo flag: [HOST/]OWNER/REPO.
func repoArg(target core.Target) string {
	if target.Host == core.DefaultHost {
		return target.Identifier()
	}
	return target.Host + "/" + target.Identifier()
}

func issuePath(ref core.Ref) string {
	return fmt.Sprintf("repos/%s/%s/issues/%d", ref.Org, ref.Repo, ref.Number)
}

// Get retrieves the full note record.
func (c *Client) Get(ctx context.Context, ref core.Ref) (core.Issue, error) {
	out, err := c.run(ctx, ref.Host, nil, apiArgs(ref.Target, issuePath(ref))...)
	if err != nil {
		return core.Issue{}, err
	}

	var issue core.Issue
	if err := json.Unmarshal([]byte(out), &issue); err != nil {
		return core.Issue{}, fmt.Errorf("decode issue %s: %w", ref, err)
	}
	return issue, nil
}

// Update replaces the note body. Last writer wins: no revision check,
// the remote side is overwritten unconditionally. The body travels over
// stdin so size and quoting never become argv problems.
func (c *Client) Update(ctx context.Context, ref core.Ref, body string) error {
	args := []string{
		"issue", "edit", strconv.Itoa(ref.Number),
		"--repo", repoArg(ref.Target),
		"--body-file", "-",
	}
	_, err := c.run(ctx, ref.Host, strings.NewReader(body), args...)
	return err
}

// Metadata retrieves only the remote modification time.
func (c *Client) Metadata(ctx context.Context, ref core.Ref) (core.Metadata, error) {
	args := apiArgs(ref.Target, issuePath(ref), "--jq", ".updated_at")
	out, err := c.run(ctx, ref.Host, nil, args...)
	if err != nil {
		return core.Metadata{}, err
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(out))
	if err != nil {
		return core.Metadata{}, fmt.Errorf("parse updated_at of %s: %w", ref, err)
	}
	return core.Metadata{UpdatedAt: t}, nil
}
