package core

import (
	"encoding/json"
	"testing"
)

func TestNewRefRejectsNonPositiveNumbers(t *testing.T) {
	target := Target{Host: DefaultHost, Org: "acme", Repo: "notes"}

	for _, n := range []int{0, -1, -42} {
		if _, err := NewRef(target, n); err == nil {
			t.Errorf("NewRef(%d) should have failed", n)
		}
	}

	ref, err := NewRef(target, 42)
	if err != nil {
		t.Fatalf("NewRef(42) failed: %v", err)
	}
	if ref.Number != 42 || ref.Org != "acme" {
		t.Errorf("unexpected ref: %+v", ref)
	}
}

func TestRefString(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"github.com", "acme/notes#7"},
		{"github.example.com", "github.example.com:acme/notes#7"},
	}

	for _, tc := range cases {
		ref, err := NewRef(Target{Host: tc.host, Org: "acme", Repo: "notes"}, 7)
		if err != nil {
			t.Fatalf("NewRef failed: %v", err)
		}
		if got := ref.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestTargetIssueURL(t *testing.T) {
	target := Target{Host: "github.example.com", Org: "acme", Repo: "notes"}
	want := "https://github.example.com/acme/notes/issues/12"
	if got := target.IssueURL(12); got != want {
		t.Errorf("IssueURL(12) = %q, want %q", got, want)
	}
}

func TestIssueDecodeNullBody(t *testing.T) {
	raw := `{"number":5,"title":"empty note","state":"open","body":null,"updated_at":"2025-06-01T12:00:00Z"}`

	var issue Issue
	if err := json.Unmarshal([]byte(raw), &issue); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if issue.Body != "" {
		t.Errorf("null body should decode to empty string, got %q", issue.Body)
	}
	if issue.UpdatedAt.IsZero() {
		t.Error("updated_at should be parsed")
	}
}
