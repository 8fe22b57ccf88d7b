// Package editor launches the user's editor on a file and blocks until
// it exits. Selection order: explicit configuration, $EDITOR, vi.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Resolve picks the editor command line. The explicit value, when
// non-empty, wins over the environment.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	return "vi"
}

// Command splits an editor command line and appends the file to open.
// VS Code returns immediately unless asked to wait, which would end the
// edit before it started, so a missing wait flag is added for it.
func Command(editorCmd, path string) []string {
	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		parts = []string{"vi"}
	}

	base := filepath.Base(parts[0])
	base = strings.TrimSuffix(base, ".exe")
	base = strings.TrimSuffix(base, ".cmd")
	if base == "code" && !hasWaitFlag(parts[1:]) {
		parts = append(parts, "--wait")
	}

	return append(parts, path)
}

func hasWaitFlag(args []string) bool {
	for _, a := range args {
		if a == "-w" || a == "--wait" {
			return true
		}
	}
	return false
}

// Launch opens path in the resolved editor, attached to the terminal,
// and blocks until the editor exits.
//
// The editor deliberately does not run under a cancellable context: an
// interrupt must never kill the user's editor mid-edit. Callers decide
// what an interrupt means after the editor returns.
func Launch(editorCmd, path string, logger *slog.Logger) error {
	parts := Command(editorCmd, path)

	if _, err := exec.LookPath(parts[0]); err != nil {
		return fmt.Errorf("editor %q not found: %w", parts[0], err)
	}

	if logger != nil {
		logger.Debug("launching editor", "cmd", strings.Join(parts, " "))
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("launch editor: %w", err)
	}
	return nil
}
