// Package version carries build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/bdobrica/futqa/common/version.Version=v1.2.0"
package version

import "fmt"

var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info returns "futqa <version> (<commit>, built <time>)".
func Info() string {
	return fmt.Sprintf("futqa %s (%s, built %s)", Version, GitCommit, BuildTime)
}
