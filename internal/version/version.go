// Package version contains version information.
package version

import "runtime/debug"

// Version information for okrtree, set via -ldflags at release time.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the full version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns version with build metadata. Fields left at their
// defaults are filled from the embedded VCS stamp when `go build` recorded one.
func GetFullVersion() string {
	date, commit := BuildDate, GitCommit
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "unknown" && s.Value != "":
				commit = shortRevision(s.Value)
			case s.Key == "vcs.time" && date == "unknown" && s.Value != "":
				date = s.Value
			}
		}
	}
	return Version + " (build: " + date + ", commit: " + commit + ")"
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
