package types

import (
	"regexp"
	"testing"
)

func TestVersion_Format(t *testing.T) {
	semverRegex := regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	if !semverRegex.MatchString(Version) {
		t.Errorf("Version %q is not a valid semver", Version)
	}
}
