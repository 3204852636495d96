package client

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// CheckCompatible reports whether a server at serverVersion can serve a
// client at clientVersion. Versions must share a major version. Development
// builds and unversioned servers are always accepted.
func CheckCompatible(serverVersion, clientVersion string) error {
	sv, cv := canonical(serverVersion), canonical(clientVersion)
	if sv == "" || cv == "" {
		return nil
	}
	if semver.Major(sv) != semver.Major(cv) {
		return fmt.Errorf("server %s is not compatible with client %s", serverVersion, clientVersion)
	}
	return nil
}

// canonical returns the semver form of v, accepting a missing "v" prefix,
// or "" if v is not a version.
func canonical(v string) string {
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
