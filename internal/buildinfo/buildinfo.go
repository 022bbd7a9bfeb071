// Package buildinfo centralises build metadata for the git-edit-index
// binary. The linker injects values into cmd/git-edit-index/main.go;
// main() forwards them here via Set().
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	version = "dev"
	commit  = "none"
)

// Set stores the build metadata received from linker-injected variables.
func Set(v, c string) {
	version = v
	commit = c
}

// Version returns the build version string.
func Version() string { return version }

// Commit returns the build commit hash.
func Commit() string { return commit }

// Summary returns the one-line string printed by --version.
func Summary() string {
	enrich()
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, commit)
}

// enrich fills a missing commit hash from runtime/debug.ReadBuildInfo,
// which covers go-install builds that bypass the release linker flags.
func enrich() {
	if commit != "none" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			commit = setting.Value
		}
	}
}
