// Package version reports the depot build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags. When left unset, the VCS stamp embedded by
// the Go toolchain is used instead.
var (
	Commit    = ""
	BuildTime = ""
)

// String returns the version line shown by `depot --version`.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime := buildInfo()
		if commit == "" {
			commit = vcsCommit
		}
		if built == "" {
			built = vcsTime
		}
	}
	return fmt.Sprintf("depot dev (commit: %s, built: %s)", short(commit), orUnknown(built))
}

func buildInfo() (commit, at string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return commit, at
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return orUnknown(commit)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
