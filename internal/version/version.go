// Package version holds the build version, set at link time with
// -ldflags "-X github.com/yogastudio/yoga/internal/version.Version=...".
package version

// Version is the version of the binaries.
var Version = "dev"
