// Package buildinfo exposes the version stamped into the binary.
//
// Release builds overwrite the defaults with ldflags:
//
//	go build -ldflags "-X github.com/MusicFlow-app/HandFlow/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/MusicFlow-app/HandFlow/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/MusicFlow-app/HandFlow/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// The defaults identify a from-source build that skipped the release
// tooling.
var (
	// Version is the semantic release version.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// String formats the build info for logs.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
