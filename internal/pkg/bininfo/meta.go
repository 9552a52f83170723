// Package bininfo carries build metadata injected with -ldflags -X, for example
//
//	-X exusiai.dev/shiftboard/internal/pkg/bininfo.Version=v1.2.0
//
// Keep the variable names stable; build scripts refer to them.
package bininfo

var (
	// Version is the SemVer version of the binary, with the git commit
	// appended after a plus sign when available.
	Version = "v0.0.0-dev"

	// BuildTime is an RFC 3339 timestamp of the build.
	BuildTime = "1970-01-01T00:00:00Z"
)
