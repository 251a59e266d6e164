// Package version provides the server version and helpers to compare releases.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service current released version.
var Version = "0.3.1"

// DevVersion is the service current development version.
var DevVersion = "0.3.2"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}

// GetSchemaVersion returns the version used to stamp the database schema.
// Patch releases never change the schema, so only major.minor is kept.
func GetSchemaVersion(mode string) string {
	return strings.TrimPrefix(semver.MajorMinor(canonical(GetCurrentVersion(mode))), "v") + ".0"
}

// IsVersionGreaterOrEqualThan returns true if version is greater than or equal to target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) >= 0
}

func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
