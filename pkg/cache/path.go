package cache

import (
	"path/filepath"
	"strconv"

	"github.com/aretw0/notehub/pkg/core"
)

// EntryPath maps a note identity to its cache directory:
//
//	<root>/<host>/<org>/<repo>/<issue number>
//
// The layout is the on-disk contract; discovery walks it back.
func EntryPath(root string, ref core.Ref) string {
	return filepath.Join(root, ref.Host, ref.Org, ref.Repo, strconv.Itoa(ref.Number))
}

// parseIssueNumber recovers an issue number from a leaf directory name.
// Only strictly positive integers qualify; anything else is not a note
// entry and gets skipped by discovery.
func parseIssueNumber(name string) (int, bool) {
	n, err := strconv.Atoi(name)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
