// Package version provide information about the build version
package version

import (
	"runtime/debug"
)

// Version is the version of the monkey. The value is set when building the binary,
// otherwise it is read from the build information
var Version = "" //nolint:gochecknoglobals

// Get returns the version of the currently executed monkey
func Get() string {
	if Version != "" {
		return Version
	}

	return fromBuildInfo(debug.ReadBuildInfo())
}

func fromBuildInfo(bi *debug.BuildInfo, ok bool) string {
	// go test and go run report "(devel)"
	if !ok || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return "devel"
	}

	return bi.Main.Version
}
