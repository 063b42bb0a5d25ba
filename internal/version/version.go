// Package version holds build metadata set through ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/assetinject/internal/version.Version=v0.3.0"
package version

import "fmt"

var Version = "dev"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("assetinject %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
