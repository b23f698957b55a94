// Package buildinfo carries build-time identification, overridden via
// -ldflags "-X github.com/orbitscope/satassist-go/internal/buildinfo.Version=...".
package buildinfo

var (
	Version   = "dev"
	Revision  = "unknown"
	BuildDate = "unknown"
)
