// Package version carries build metadata stamped in with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/navaudit/internal/version.Version=v1.0.0"
package version

import "fmt"

// Version is the release version, "dev" for local builds.
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("navaudit %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
