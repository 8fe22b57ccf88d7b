// Package notehub keeps a local, version-tracked cache of GitHub issues
// so they can be edited offline like plain markdown notes and pushed
// back one note at a time.
//
// Philosophy:
//
// An issue is a fine place to keep a note, but a browser is a poor place
// to write one. Notehub caches each issue as a tiny git repository of
// its own: edits happen locally in your editor, dirtiness is detected by
// comparing against the last committed baseline, and syncing pushes the
// content back with last-writer-wins semantics. One broken note never
// blocks the rest.
//
// Features:
//
//   - **Per-note isolation**: every cached note owns its directory and
//     git history; batch syncs continue past individual failures.
//   - **Offline first**: dirtiness detection is purely local, the remote
//     is only contacted when pushing.
//   - **Editor driven**: notes open in whatever $EDITOR says, from vi to
//     VS Code.
//   - **Context aware**: running inside a checkout binds notes to that
//     repository automatically.
//   - **Pluggable store**: the remote side is an interface
//     (`core.Store`); the default implementation shells out to the gh
//     CLI.
//
// Usage:
//
//	// Edit note #42 of a target, then push it back.
//	target := core.Target{Host: core.DefaultHost, Org: "acme", Repo: "notes"}
//	res, err := notehub.Edit(ctx, target, "42",
//		notehub.WithCacheRoot("/home/me/.notehub"),
//	)
//
//	// Push every locally edited note.
//	summary, err := notehub.SyncCached(ctx)
package notehub
