// Package misc carries small helpers shared by all commands.
package misc

import "runtime/debug"

const appName = "svgc"

// GetAppName returns the program name used for logger naming and output
// messages.
func GetAppName() string {
	return appName
}

// GetVersion returns the module version recorded in build info, or "devel"
// for local builds.
func GetVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "devel"
}
