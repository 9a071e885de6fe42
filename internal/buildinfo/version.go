// Package buildinfo derives the CLI's own version from Go build
// metadata. This is the version of the orbit tool itself, not the
// platform build number it checks updates for.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Version returns the version string for the current binary.
//
// Tagged releases installed with go install report the tag. For
// development builds a pseudo-version is derived from VCS metadata:
// "dev-<hash>", "dev-<hash>-dirty", or plain "dev" when no VCS info
// was stamped.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion(info)
}

func devVersion(info *debug.BuildInfo) string {
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	rev := settings["vcs.revision"]
	if rev == "" {
		return "dev"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if settings["vcs.modified"] == "true" {
		return fmt.Sprintf("dev-%s-dirty", rev)
	}
	return fmt.Sprintf("dev-%s", rev)
}
