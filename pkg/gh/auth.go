package gh

import (
	"context"
	"os/exec"
	"strings"

	"github.com/aretw0/notehub/pkg/core"
)

// gh reads credentials from several environment variables and mixes
// them up when more than one is set: a GH_TOKEN minted for github.com
// would shadow stored enterprise credentials and vice versa. The
// environment is therefore rewritten before every invocation so exactly
// one credential source remains visible for the host being called.
var tokenVars = []string{
	"GH_TOKEN",
	"GITHUB_TOKEN",
	"GH_ENTERPRISE_TOKEN",
	"GH_ENTERPRISE_TOKEN_2",
}

// prepareEnv rewrites environ for a gh call against host: GH_HOST is
// pinned and the token variables collapse to the single winning
// credential, or to none at all so gh falls back to its keyring.
func prepareEnv(host string, environ []string) []string {
	env := scrub(environ, append([]string{"GH_HOST"}, tokenVars...)...)
	env = append(env, "GH_HOST="+host)

	if name := winningTokenVar(host, environ); name != "" {
		token := envValue(environ, name)
		// Set both spellings so gh accepts the credential regardless of
		// which family of host it classifies the call under.
		env = append(env, "GH_TOKEN="+token, "GH_ENTERPRISE_TOKEN="+token)
	}
	return env
}

// AuthSource names the environment variable whose token will
// authenticate calls against host, or "" when gh's stored credentials
// will be used.
func AuthSource(host string, environ []string) string {
	return winningTokenVar(host, environ)
}

// winningTokenVar applies the precedence rules.
//
// github.com: GITHUB_TOKEN first. When only enterprise tokens are set
// the call falls back to stored credentials, because an enterprise
// token is never valid for the public instance. GH_TOKEN is last since
// users commonly export it for enterprise use.
//
// Enterprise hosts: GH_ENTERPRISE_TOKEN_2 allows a second instance to
// coexist, then GH_ENTERPRISE_TOKEN. GH_TOKEN counts only when
// GITHUB_TOKEN is absent; with both set, GH_TOKEN is assumed to belong
// to github.com.
func winningTokenVar(host string, environ []string) string {
	has := func(name string) bool { return envValue(environ, name) != "" }

	if host == core.DefaultHost {
		switch {
		case has("GITHUB_TOKEN"):
			return "GITHUB_TOKEN"
		case has("GH_ENTERPRISE_TOKEN") || has("GH_ENTERPRISE_TOKEN_2"):
			return ""
		case has("GH_TOKEN"):
			return "GH_TOKEN"
		}
		return ""
	}

	switch {
	case has("GH_ENTERPRISE_TOKEN_2"):
		return "GH_ENTERPRISE_TOKEN_2"
	case has("GH_ENTERPRISE_TOKEN"):
		return "GH_ENTERPRISE_TOKEN"
	case has("GH_TOKEN") && !has("GITHUB_TOKEN"):
		return "GH_TOKEN"
	}
	return ""
}

func scrub(environ []string, names ...string) []string {
	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		if matchesAny(kv, names) {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func matchesAny(kv string, names []string) bool {
	for _, name := range names {
		if strings.HasPrefix(kv, name+"=") {
			return true
		}
	}
	return false
}

func envValue(environ []string, name string) string {
	prefix := name + "="
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return ""
}

// CheckInstalled reports whether the gh binary is available on PATH.
func (c *Client) CheckInstalled() bool {
	_, err := exec.LookPath(c.Bin)
	return err == nil
}

// CheckAuth reports whether gh holds working credentials for host.
func (c *Client) CheckAuth(ctx context.Context, host string) bool {
	_, err := c.run(ctx, host, nil, "auth", "status", "--hostname", host)
	return err == nil
}

// CurrentUser returns the authenticated login for host, or "" when it
// cannot be determined.
func (c *Client) CurrentUser(ctx context.Context, host string) string {
	args := []string{"api", "user", "--jq", ".login"}
	if host != core.DefaultHost {
		args = append(args, "--hostname", host)
	}
	out, err := c.run(ctx, host, nil, args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
