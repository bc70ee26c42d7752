// Package version carries build metadata, set with -ldflags at release time:
//
//	-X github.com/sohamroyc/Api-directory/internal/version.Version=v0.1.0
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2026-10-15T18:42:00Z
	GoVersion = runtime.Version() // go version
)

func init() {
	// Fall back to the VCS stamp embedded by `go build` when ldflags are unset.
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" && len(s.Value) >= 7 {
				Commit = s.Value[:7]
			}
		case "vcs.time":
			if BuildDate == "unknown" {
				BuildDate = s.Value
			}
		}
	}
}
