// Package resolve determines which remote repository a command targets.
// Explicit flags always win; after that the enclosing git repository,
// the environment and git configuration are consulted in a fixed order,
// so running notehub inside a checkout naturally binds to that project.
package resolve

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/git"
)

// Environment variables honored during resolution.
const (
	EnvOrg  = "NotehubOrg"
	EnvRepo = "NotehubRepo"
)

// Default repo when nothing else is configured: a personal notes
// repository that the user is expected to create once.
const defaultRepo = "notehub.default"

// Options carries explicit overrides and resolution tweaks.
type Options struct {
	// Host, Org and Repo override every other source when non-empty.
	Host string
	Org  string
	Repo string

	// Global skips the enclosing repository, resolving only from the
	// environment and global git configuration.
	Global bool

	// FallbackHost is consulted after git configuration and before the
	// built-in default, typically from the config file.
	FallbackHost string

	// Dir is the working directory for git lookups; "" means the
	// process working directory.
	Dir string

	Logger *slog.Logger
}

// Target resolves the active host, org and repo.
//
// Host: flag, origin remote, global git config notehub.host, fallback,
// then github.com.
// Org: flag, origin remote, $NotehubOrg, global git config notehub.org,
// then $USER.
// Repo: flag, repo-local git config notehub.repo, $NotehubRepo, global
// git config notehub.repo, then the built-in default.
func Target(ctx context.Context, opts Options) core.Target {
	g := git.NewClient(opts.Dir, opts.Logger)

	var remoteHost, remoteOrg string
	if !opts.Global && (opts.Host == "" || opts.Org == "") {
		remoteHost, remoteOrg = remoteTarget(g.RemoteURL(ctx, "origin"))
	}

	target := core.Target{
		Host: resolveHost(ctx, g, opts, remoteHost),
		Org:  resolveOrg(ctx, g, opts, remoteOrg),
		Repo: resolveRepo(ctx, g, opts),
	}

	if opts.Logger != nil {
		opts.Logger.Debug("resolved store context",
			"host", target.Host, "org", target.Org, "repo", target.Repo)
	}
	return target
}

func resolveHost(ctx context.Context, g *git.Client, opts Options, remoteHost string) string {
	if opts.Host != "" {
		return opts.Host
	}
	if remoteHost != "" {
		return remoteHost
	}
	if v := g.ConfigGet(ctx, "notehub.host", true); v != "" {
		return v
	}
	if opts.FallbackHost != "" {
		return opts.FallbackHost
	}
	return core.DefaultHost
}

func resolveOrg(ctx context.Context, g *git.Client, opts Options, remoteOrg string) string {
	if opts.Org != "" {
		return opts.Org
	}
	if remoteOrg != "" {
		return remoteOrg
	}
	if v := os.Getenv(EnvOrg); v != "" {
		return v
	}
	if v := g.ConfigGet(ctx, "notehub.org", true); v != "" {
		return v
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return "unknown-user"
}

func resolveRepo(ctx context.Context, g *git.Client, opts Options) string {
	if opts.Repo != "" {
		return opts.Repo
	}
	if !opts.Global {
		if v := g.ConfigGet(ctx, "notehub.repo", false); v != "" {
			return v
		}
	}
	if v := os.Getenv(EnvRepo); v != "" {
		return v
	}
	if v := g.ConfigGet(ctx, "notehub.repo", true); v != "" {
		return v
	}
	return defaultRepo
}

// remoteTarget extracts the host and org from a git remote URL. Both
// https and scp-like ssh forms are understood; anything else resolves
// to nothing.
func remoteTarget(url string) (host, org string) {
	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		rest := url[strings.Index(url, "//")+2:]
		parts := strings.Split(rest, "/")
		host = parts[0]
		if len(parts) > 1 && parts[1] != "" {
			org = strings.TrimSuffix(parts[1], ".git")
		}

	case strings.Contains(url, "@") && strings.Contains(url, ":"):
		at := strings.Index(url, "@")
		colon := strings.Index(url, ":")
		if at >= colon {
			return "", ""
		}
		host = url[at+1 : colon]
		path := url[colon+1:]
		if i := strings.Index(path, "/"); i > 0 {
			org = path[:i]
		} else if path != "" {
			org = strings.TrimSuffix(path, ".git")
		}
	}
	return host, org
}
