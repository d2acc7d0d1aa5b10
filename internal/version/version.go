// Package version holds the tool version, overridable at build time with
// -ldflags "-X .../internal/version.Version=...".
package version

// Version is the tool version string.
var Version = "dev"
