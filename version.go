package notehub

import _ "embed"

// Version is the current notehub release, embedded at build time from
// version.txt so the CLI and the library always agree.
//
//go:embed version.txt
var Version string
