package cache

import (
	"fmt"
	"strings"

	"github.com/aretw0/notehub/pkg/core"
)

// Cache histories double as an audit trail, so commit messages follow
// the Conventional Commit shape.

func snapshotCommitMessage(ref core.Ref) string {
	return formatCommitMessage("chore", "cache", fmt.Sprintf("snapshot %s", ref))
}

func updateCommitMessage(ref core.Ref) string {
	return formatCommitMessage("docs", "note", fmt.Sprintf("update %s", ref))
}

// formatCommitMessage builds:
//
//	<type>(<scope>): <subject>
//
//	Powered-by: notehub
func formatCommitMessage(ctype, scope, subject string) string {
	var sb strings.Builder

	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	sb.WriteString("\n\n")
	sb.WriteString("Powered-by: notehub")

	return sb.String()
}
