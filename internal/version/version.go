// Package version exposes build metadata stamped in via ldflags.
package version

// Overridden at build time, for example:
//
//	-ldflags "-X .../internal/version.Version=v1.2.0"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
