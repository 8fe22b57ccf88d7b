package core

import "errors"

// Common errors.
var (
	// ErrNotFound reports that a note does not exist on the remote store,
	// typically because the issue was deleted or transferred.
	ErrNotFound = errors.New("note not found on remote")

	// ErrCancelled reports that the user aborted an interactive operation.
	ErrCancelled = errors.New("cancelled")
)
