package version

import (
	"runtime/debug"
	"strings"
)

// Stamped is set with -ldflags "-X github.com/fmueller/transcribe/internal/version.Stamped=1.2.3".
var Stamped string

// Base is reported for builds that carry neither a stamp nor a module version.
const Base = "0.1.0"

// Resolve picks the version to print: the ldflags stamp, then the module
// version recorded by `go install pkg@version`, then Base tagged with the VCS
// revision the binary was built from.
func Resolve() string {
	info, _ := debug.ReadBuildInfo()
	return resolve(Stamped, info)
}

func resolve(stamped string, info *debug.BuildInfo) string {
	if v := strings.TrimSpace(stamped); v != "" {
		return strings.TrimPrefix(v, "v")
	}
	if info == nil {
		return Base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return strings.TrimPrefix(v, "v")
	}

	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision == "" {
		return Base
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}

	v := Base + "-dev+" + revision
	if modified == "true" {
		v += ".dirty"
	}
	return v
}
