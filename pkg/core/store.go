package core

import "context"

// Store defines the contract for the remote collaborator that holds the
// canonical notes. Adhering to this interface keeps the sync logic
// independent of the transport (GitHub CLI, REST, a fake in tests).
//
// Implementations classify their failures: a missing note surfaces as an
// error matching ErrNotFound, everything else is a transport or auth
// failure. Callers branch on error identity, never on error text.
type Store interface {
	// Get retrieves the full note record.
	Get(ctx context.Context, ref Ref) (Issue, error)

	// Update replaces the note body. Last writer wins; the store never
	// compares revisions before overwriting.
	Update(ctx context.Context, ref Ref, body string) error

	// Metadata retrieves the current remote modification time, used to
	// record which revision a push produced.
	Metadata(ctx context.Context, ref Ref) (Metadata, error)
}

// Lister enumerates the open notes of a target. Kept separate from Store
// because only ident resolution and listing need it.
type Lister interface {
	// ListOpen returns the open notes, most recently created first.
	ListOpen(ctx context.Context, target Target) ([]Issue, error)
}
