package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func String() string {
	return fmt.Sprintf("promptpipe %s (commit=%s build_date=%s)", Version, Commit, BuildDate)
}
