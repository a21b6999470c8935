// Package buildinfo carries version metadata stamped in with -ldflags, e.g.
//
//	-X github.com/netnem/waveshare-1.7-epaper-info/internal/buildinfo.Version=v1.2.0
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for titles and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" && c != "unknown" {
		if len(c) > 12 {
			c = c[:12]
		}
		return c
	}
	return "dev"
}

// String is the full version line printed by the version command.
func String() string {
	return fmt.Sprintf("epaper-info %s (commit %s, built %s, %s %s/%s)",
		Version, commit(), Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// commit falls back to the VCS revision recorded by the go tool when none
// was stamped.
func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return Commit
}
