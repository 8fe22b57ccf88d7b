package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/notehub/pkg/core"
)

// FindAll scans a cache root and returns every valid entry, in lexical
// path order. A directory four levels deep qualifies when its name is a
// strictly positive integer and it carries version tracking; everything
// else is skipped. The scan is best-effort over possibly partial state:
// a missing or unreadable root yields no entries, never an error.
func FindAll(root string, logger *slog.Logger) []*Entry {
	var entries []*Entry

	hosts, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, host := range hosts {
		if !host.IsDir() {
			continue
		}
		orgs, err := os.ReadDir(filepath.Join(root, host.Name()))
		if err != nil {
			continue
		}
		for _, org := range orgs {
			if !org.IsDir() {
				continue
			}
			repos, err := os.ReadDir(filepath.Join(root, host.Name(), org.Name()))
			if err != nil {
				continue
			}
			for _, repo := range repos {
				if !repo.IsDir() {
					continue
				}
				leaves, err := os.ReadDir(filepath.Join(root, host.Name(), org.Name(), repo.Name()))
				if err != nil {
					continue
				}
				for _, leaf := range leaves {
					if !leaf.IsDir() {
						continue
					}
					number, ok := parseIssueNumber(leaf.Name())
					if !ok {
						continue
					}
					target := core.Target{Host: host.Name(), Org: org.Name(), Repo: repo.Name()}
					ref, err := core.NewRef(target, number)
					if err != nil {
						continue
					}
					entry := Open(root, ref, logger)
					if !entry.Initialized() {
						if logger != nil {
							logger.Debug("skipping directory without version tracking", "path", entry.Path)
						}
						continue
					}
					entries = append(entries, entry)
				}
			}
		}
	}

	return entries
}

// FindDirty returns the entries under root whose content diverges from
// its baseline. An entry whose dirtiness probe fails is skipped rather
// than failing the scan; one broken entry must not block the rest.
func FindDirty(ctx context.Context, root string, logger *slog.Logger) []*Entry {
	var dirty []*Entry
	for _, entry := range FindAll(root, logger) {
		d, err := entry.IsDirty(ctx)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping entry, dirtiness probe failed", "path", entry.Path, "error", err)
			}
			continue
		}
		if d {
			dirty = append(dirty, entry)
		}
	}
	return dirty
}

// Filter keeps entries whose host/org/repo/number path matches the glob
// pattern. Patterns use doublestar syntax, so "github.com/acme/**"
// selects every note of an org. An empty pattern keeps everything.
func Filter(entries []*Entry, pattern string) ([]*Entry, error) {
	if pattern == "" {
		return entries, nil
	}
	var kept []*Entry
	for _, entry := range entries {
		rel := path.Join(entry.Ref.Host, entry.Ref.Org, entry.Ref.Repo, strconv.Itoa(entry.Ref.Number))
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			kept = append(kept, entry)
		}
	}
	return kept, nil
}
