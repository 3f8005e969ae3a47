package registry

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// LatestTag is the dist-tag accepted everywhere a version is expected.
const LatestTag = "latest"

// Registry is a read-only lookup against a package index.
type Registry interface {
	// Resolve returns the published version of name that version selects.
	// version may be an exact version, a dist-tag, or a semver range.
	// A miss is reported as a *NotFoundError.
	Resolve(ctx context.Context, name, version string) (string, error)
}

var packageNamePattern = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// ValidatePackageName checks name against the npm naming rules.
func ValidatePackageName(name string) error {
	if len(name) == 0 || len(name) > 214 || !packageNamePattern.MatchString(name) {
		return &ValidationError{
			Field:   "name",
			Value:   name,
			Message: fmt.Sprintf("Invalid package name %q", name),
		}
	}
	return nil
}

// selectVersion picks the version that spec selects from the published set.
// Exact versions must be published as-is; ranges pick the highest match.
func selectVersion(spec string, published []string, distTags map[string]string) (string, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "*" {
		spec = LatestTag
	}

	if v, ok := distTags[spec]; ok {
		return v, true
	}

	if exact, err := semver.StrictNewVersion(strings.TrimPrefix(spec, "v")); err == nil {
		for _, p := range published {
			if pv, err := semver.NewVersion(p); err == nil && pv.Equal(exact) {
				return p, true
			}
		}
		return "", false
	}

	constraint, err := semver.NewConstraint(spec)
	if err != nil {
		return "", false
	}

	versions := make([]*semver.Version, 0, len(published))
	for _, p := range published {
		if v, err := semver.NewVersion(p); err == nil {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(semver.Collection(versions)))

	for _, v := range versions {
		if constraint.Check(v) {
			return v.Original(), true
		}
	}
	return "", false
}
