package scan

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// validateHostCompatibility checks the declared host version range against
// the running host version. A host build carrying a prerelease tag (a dated
// development build) also satisfies a range matched by its release base, but
// only when a build date is known.
func validateHostCompatibility(versionRange, hostVersion, hostDate string) []notice {
	if versionRange == "" || versionRange == "*" {
		return nil
	}
	constraint, err := semver.NewConstraint(versionRange)
	if err != nil {
		return []notice{{severityError, fmt.Sprintf("could not parse engines.%s value %q: %v", engineKey, versionRange, err)}}
	}
	if hostVersion == "" {
		return nil
	}
	current, err := semver.NewVersion(hostVersion)
	if err != nil {
		return []notice{{severityError, fmt.Sprintf("could not parse host version %q: %v", hostVersion, err)}}
	}
	if constraint.Check(current) {
		return nil
	}
	if current.Prerelease() != "" && hostDate != "" {
		if released, err := current.SetPrerelease(""); err == nil && constraint.Check(&released) {
			return nil
		}
	}
	return []notice{{severityError, fmt.Sprintf("extension is not compatible with host version %s, it requires %s", hostVersion, versionRange)}}
}
