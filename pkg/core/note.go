package core

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultHost is the public GitHub instance. Targets on any other host
// are treated as GitHub Enterprise.
const DefaultHost = "github.com"

// Target identifies one remote repository used as a note store.
type Target struct {
	Host string
	Org  string
	Repo string
}

// Identifier returns the org/repo pair.
func (t Target) Identifier() string {
	return t.Org + "/" + t.Repo
}

// FullIdentifier returns the org/repo pair, prefixed with the host for
// non-github.com targets.
func (t Target) FullIdentifier() string {
	if t.Host == DefaultHost || t.Host == "" {
		return t.Identifier()
	}
	return t.Host + ":" + t.Identifier()
}

// IssueURL builds the browser URL for an issue number in this target.
func (t Target) IssueURL(number int) string {
	return fmt.Sprintf("https://%s/%s/%s/issues/%d", t.Host, t.Org, t.Repo, number)
}

// Ref addresses a single note: one issue in one repository.
// It is the key for both remote calls and the local cache layout.
type Ref struct {
	Target
	Number int
}

// NewRef validates an issue number and binds it to a target.
// Issue numbers are strictly positive; anything else is rejected here so
// no other layer has to re-check.
func NewRef(target Target, number int) (Ref, error) {
	if number <= 0 {
		return Ref{}, fmt.Errorf("issue number must be positive, got %d", number)
	}
	return Ref{Target: target, Number: number}, nil
}

func (r Ref) String() string {
	return r.FullIdentifier() + "#" + strconv.Itoa(r.Number)
}

// Issue is the remote note record as the store returns it.
// A null body on the wire decodes to the empty string.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Body      string    `json:"body"`
	URL       string    `json:"html_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Metadata is the subset of the remote record consulted after a push.
type Metadata struct {
	UpdatedAt time.Time `json:"updated_at"`
}
