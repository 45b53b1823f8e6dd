// Package version holds the build identity of the cgraph binary.
package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time:
//
//	go build -ldflags "-X cgraph/internal/version.Version=1.2.0 -X cgraph/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// shortCommitLen is the number of commit hash characters shown by Info.
const shortCommitLen = 7

// Info returns the version, followed by the abbreviated commit when one
// longer than the abbreviation was stamped in.
func Info() string {
	if Commit != "unknown" && len(Commit) > shortCommitLen {
		return fmt.Sprintf("%s (%s)", Version, Commit[:shortCommitLen])
	}
	return Version
}

// Full returns the multi-line text printed by "cgraph version".
func Full() string {
	return fmt.Sprintf("cgraph version %s\nCommit: %s\nBuilt: %s\nGo: %s %s/%s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
