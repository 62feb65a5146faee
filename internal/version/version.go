// Package version holds build information set through -ldflags.
package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String returns a one-line description, e.g. "testalot v1.2.0 (abc1234, 2024-05-01)".
func String() string {
	return fmt.Sprintf("testalot %s (%s, %s)", Version, CommitHash, BuildDate)
}
