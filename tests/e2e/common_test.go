package e2e

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// fakeGhScript stands in for the real gh CLI. Responses are keyed off
// the issue number: 404 is gone remotely, 429 is rate limited, anything
// else succeeds. Every invocation is appended to $FAKE_GH_LOG and pushed
// bodies land in $FAKE_GH_DATA.
const fakeGhScript = `#!/bin/sh
echo "$@" >> "$FAKE_GH_LOG"

case "$*" in
"auth status"*)
	exit 0
	;;
"api user"*)
	echo "testuser"
	;;
"issue list"*)
	echo '[{"number":42,"title":"Groceries","url":"https://github.com/acme/notes/issues/42","updatedAt":"2025-06-01T12:00:00Z"}]'
	;;
"issue edit 404 "*)
	echo "HTTP 404: Not Found (https://api.github.com/repos/acme/notes/issues/404)" >&2
	exit 1
	;;
"issue edit 429 "*)
	echo "HTTP 429: API rate limit exceeded" >&2
	exit 1
	;;
"issue edit "*)
	cat >"$FAKE_GH_DATA/pushed-$3.md"
	;;
*"--jq .updated_at")
	echo "2025-06-02T10:00:00Z"
	;;
"api repos/"*"/issues/404")
	echo "HTTP 404: Not Found (https://api.github.com/repos/acme/notes/issues/404)" >&2
	exit 1
	;;
"api repos/"*)
	num="${2##*/}"
	printf '{"number":%s,"title":"Seeded note %s","state":"open","body":"remote body %s","html_url":"https://github.com/acme/notes/issues/%s","updated_at":"2025-06-01T12:00:00Z"}\n' "$num" "$num" "$num" "$num"
	;;
*)
	echo "fake gh: unhandled command: $*" >&2
	exit 64
	;;
esac
`

// fakeEditScript overwrites the note with a fixed body, standing in for
// a real editor session.
const fakeEditScript = `#!/bin/sh
printf 'edited body\n' >"$1"
`

// buildNotehubBinary builds the notehub binary in the specified directory and returns its path.
func buildNotehubBinary(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "notehub.exe")
	buildCmd := exec.Command("go", "build", "-o", bin, "../../cmd/notehub")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build notehub: %v\n%s", err, string(out))
	}
	return bin
}

// fixture wires a built binary to the scripted gh, a fake editor and an
// isolated cache root.
type fixture struct {
	bin    string
	dir    string
	root   string
	ghLog  string
	ghData string
	env    []string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fixture scripts require a POSIX shell")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tmp := t.TempDir()
	binDir := filepath.Join(tmp, "bin")
	if err := os.Mkdir(binDir, 0755); err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		bin:    buildNotehubBinary(t, tmp),
		dir:    tmp,
		root:   filepath.Join(tmp, "cache"),
		ghLog:  filepath.Join(tmp, "gh.log"),
		ghData: filepath.Join(tmp, "gh-data"),
	}
	if err := os.Mkdir(f.ghData, 0755); err != nil {
		t.Fatal(err)
	}

	writeScript(t, filepath.Join(binDir, "gh"), fakeGhScript)
	writeScript(t, filepath.Join(binDir, "fakeedit"), fakeEditScript)

	f.env = append(os.Environ(),
		"PATH="+binDir+string(os.PathListSeparator)+os.Getenv("PATH"),
		"NOTEHUB_CACHE_ROOT="+f.root,
		"NOTEHUB_CONFIG="+filepath.Join(tmp, "missing-config.yaml"),
		"FAKE_GH_LOG="+f.ghLog,
		"FAKE_GH_DATA="+f.ghData,
		"EDITOR=fakeedit",
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_SYSTEM=/dev/null",
	)
	return f
}

// notehub runs the built binary and returns its combined output and exit code.
func (f *fixture) notehub(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(f.bin, args...)
	cmd.Dir = f.dir
	cmd.Env = f.env
	out, err := cmd.CombinedOutput()
	fmt.Printf("[notehub %s]\n%s", strings.Join(args, " "), out)
	if err == nil {
		return string(out), 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), exitErr.ExitCode()
	}
	t.Fatalf("notehub %v did not run: %v", args, err)
	return "", 0
}

// seedEntry creates a committed cache entry the way the tool would, and
// optionally dirties it with a local edit.
func (f *fixture) seedEntry(t *testing.T, number int, dirty bool) string {
	t.Helper()
	dir := filepath.Join(f.root, "github.com", "acme", "notes", strconv.Itoa(number))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "note.md"), fmt.Sprintf("remote body %d\n", number))
	run(t, dir, "git", "init")
	run(t, dir, "git", "add", "note.md")
	run(t, dir, "git", "-c", "user.name=t", "-c", "user.email=t@t", "commit", "-m", "seed", "--no-gpg-sign")
	if dirty {
		writeFile(t, filepath.Join(dir, "note.md"), fmt.Sprintf("local edit %d\n", number))
	}
	return dir
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	fmt.Printf("[%s] Executing: %s %v\n", dir, name, args)
	if err := cmd.Run(); err != nil {
		t.Fatalf("Command %s %v failed in %s: %v", name, args, dir, err)
	}
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}
