package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X .../version.Commit=...".
// When unset, the VCS stamp embedded by the go tool is used instead.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// String returns the version line shown by `brewctl --version`.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime := vcsStamp()
		if commit == "" {
			commit = vcsCommit
		}
		if built == "" {
			built = vcsTime
		}
	}
	return fmt.Sprintf("brewctl %s (commit: %s, built: %s)", Version, short(commit), orUnknown(built))
}

func vcsStamp() (revision, at string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return revision, at
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
