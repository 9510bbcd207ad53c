// Package version holds loxvm build metadata.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags, e.g.
//
//	-X loxvm/internal/version.GitCommit=$(git rev-parse HEAD)
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with the major, minor and patch numbers coloured.
// The pre-release suffix stays plain. Honors color.NoColor.
func Colored() string {
	core, suffix, hasSuffix := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}

// ShortCommit returns the first 12 characters of GitCommit.
func ShortCommit() string {
	if len(GitCommit) > 12 {
		return GitCommit[:12]
	}
	return GitCommit
}
