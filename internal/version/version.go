// Package version holds the build version, overridable at link time.
package version

// Version is set via -ldflags "-X lingo-hub/internal/version.Version=..."
var Version = "dev"
