// Package buildinfo exposes version and build identification for resolvq.
// Both variables are set at link-time via -ldflags.
package buildinfo

// Version is set at link-time with -ldflags.
var Version = "v0.3.0"

// Commit is set at link-time with -ldflags.
// Default is "unknown" so tests and "go run ." still work.
var Commit = "unknown"
