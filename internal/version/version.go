package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

const App = "EventGate"

// Set with -ldflags "-X github.com/go-authgate/eventgate/internal/version.Version=v1.2.0".
var (
	Version   string
	GitCommit string
	BuildTime string
)

// String returns the release version, "dev" for untagged builds.
func String() string {
	if Version != "" {
		return Version
	}
	return "dev"
}

// Commit returns the short commit hash, falling back to the VCS stamp the Go
// toolchain embeds in the binary.
func Commit() string {
	commit := GitCommit
	if commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					commit = s.Value
				}
			}
		}
	}
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

// Print writes the build description shown by "eventgate version".
func Print(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", App, String())
	if c := Commit(); c != "" {
		fmt.Fprintf(w, "Git commit: %s\n", c)
	}
	if BuildTime != "" {
		fmt.Fprintf(w, "Build time: %s\n", BuildTime)
	}
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "Built for: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
