// Package version carries build metadata stamped in via ldflags.
package version

var (
	// Version is the release version, "dev" for unstamped builds.
	Version = "dev"
	// GitCommit is the short commit hash of the build.
	GitCommit = "unknown"
	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Full returns a multi-line human-readable version report.
func Full() string {
	return "blobcount version " + Version + "\n" +
		"Commit: " + GitCommit + "\n" +
		"Date: " + BuildDate + "\n"
}
