package utils

import "runtime/debug"

// unknownVersion is reported when no build metadata is available.
const unknownVersion = "unknown"

// ApplicationVersion returns the module version recorded in the build info.
func ApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
