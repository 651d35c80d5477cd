// Package version exposes the build version of carbonscope.
package version

import "runtime/debug"

// Set at build time with
//
//	-ldflags "-X github.com/rshade/carbonscope/pkg/version.version=v1.2.3 -X github.com/rshade/carbonscope/pkg/version.commit=abc123"
var (
	version = "0.0.0-dev" //nolint:gochecknoglobals // Overridden via ldflags
	commit  = ""          //nolint:gochecknoglobals // Overridden via ldflags
)

// GetVersion returns the build version, falling back to the module version
// recorded by `go install`.
func GetVersion() string {
	if version != "0.0.0-dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// GetCommit returns the VCS revision the binary was built from, if known.
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}
