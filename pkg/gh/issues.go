package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/notehub/pkg/core"
)

// NoteLabel marks the issues managed as notes. Listing filters on it so
// ordinary issues stay out of the way.
const NoteLabel = "notehub"

const noteLabelColor = "FFC107"

// ListOpen returns the open notes of a target.
func (c *Client) ListOpen(ctx context.Context, target core.Target) ([]core.Issue, error) {
	args := []string{
		"issue", "list",
		"--repo", repoArg(target),
		"--label", NoteLabel,
		"--state", "open",
		"--json", "number,title,url,updatedAt",
	}
	out, err := c.run(ctx, target.Host, nil, args...)
	if err != nil {
		return nil, err
	}

	// gh's --json output uses camelCase field names, unlike the REST
	// payloads elsewhere in this package.
	var raw []struct {
		Number    int       `json:"number"`
		Title     string    `json:"title"`
		URL       string    `json:"url"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return nil, fmt.Errorf("decode issue list of %s: %w", target.Identifier(), err)
	}

	issues := make([]core.Issue, 0, len(raw))
	for _, r := range raw {
		issues = append(issues, core.Issue{
			Number:    r.Number,
			Title:     r.Title,
			State:     "open",
			URL:       r.URL,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return issues, nil
}

// EnsureLabel creates the note label on the target. A label that
// already exists counts as success.
func (c *Client) EnsureLabel(ctx context.Context, target core.Target) error {
	args := apiArgs(target, fmt.Sprintf("repos/%s/%s/labels", target.Org, target.Repo),
		"-X", "POST",
		"-f", "name="+NoteLabel,
		"-f", "color="+noteLabelColor,
		"-f", "description=Notes managed by notehub",
	)
	_, err := c.run(ctx, target.Host, nil, args...)
	if err != nil && strings.Contains(err.Error(), "already_exists") {
		return nil
	}
	return err
}

// Create starts gh's interactive issue creation attached to the
// terminal, pre-labelled as a note. It blocks until the user finishes
// or aborts.
func (c *Client) Create(ctx context.Context, target core.Target) error {
	if err := c.EnsureLabel(ctx, target); err != nil {
		if c.Logger != nil {
			c.Logger.Warn("could not ensure note label", "target", target.Identifier(), "error", err)
		}
	}

	if c.Logger != nil {
		c.Logger.Debug("starting interactive issue creation", "target", target.Identifier())
	}

	cmd := exec.CommandContext(ctx, c.Bin, "issue", "create",
		"--repo", repoArg(target), "--label", NoteLabel)
	cmd.Env = prepareEnv(target.Host, os.Environ())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
