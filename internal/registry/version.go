package registry

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionPattern is MAJOR.MINOR.PATCH with an optional dot-separated
// -prerelease suffix. Build metadata is not accepted.
var versionPattern = regexp.MustCompile(`^(\d+\.\d+\.\d+)(-[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?$`)

// IsVersionSyntax reports whether version matches the accepted version grammar.
func IsVersionSyntax(version string) bool {
	return versionPattern.MatchString(version)
}

// VersionValidator checks version pins for a named package.
type VersionValidator struct {
	registry Registry
}

// NewVersionValidator creates a validator that confirms versions against r.
func NewVersionValidator(r Registry) *VersionValidator {
	return &VersionValidator{registry: r}
}

// Validate returns the registry-resolved form of version for packageName.
// "latest" is returned unchanged without a lookup. Malformed versions fail
// with a *ValidationError before any lookup; registry misses and lookup
// failures fail with a *NotFoundError.
func (v *VersionValidator) Validate(ctx context.Context, version, packageName string) (string, error) {
	if version == LatestTag {
		return version, nil
	}

	if !IsVersionSyntax(version) {
		return "", &ValidationError{
			Field:   "version",
			Value:   version,
			Message: `Invalid version format. Use semver (e.g., 13.4.0) or "latest"`,
		}
	}

	resolved, err := v.registry.Resolve(ctx, packageName, version)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return "", nf
		}
		return "", &NotFoundError{Name: packageName, Version: version, Err: err}
	}
	return strings.TrimSpace(resolved), nil
}

// ─── Node.js version pins ──────────────────────────────────────────

// CurrentNode is the pin that resolves to the locally installed Node.js.
const CurrentNode = "current"

// fallbackNodeVersion is used when "current" cannot be resolved.
const fallbackNodeVersion = "18.x"

var nodeVersionPattern = regexp.MustCompile(`^(\d+)(?:\.(?:x|\d+)(?:\.(?:x|\d+))?)?$`)

// NodeVersionValidator checks Node.js version pins such as 18, 18.x, or 18.17.0.
type NodeVersionValidator struct {
	// detect returns the raw `node --version` output.
	detect func(ctx context.Context) (string, error)
}

// NewNodeVersionValidator creates a validator that asks the local node
// binary when resolving "current".
func NewNodeVersionValidator() *NodeVersionValidator {
	return &NodeVersionValidator{detect: detectNodeVersion}
}

// Validate returns the pin to record. "current" resolves to the installed
// Node.js version, falling back to 18.x when node is unavailable.
func (v *NodeVersionValidator) Validate(ctx context.Context, version string) (string, error) {
	if version == CurrentNode {
		return v.current(ctx), nil
	}

	if !nodeVersionPattern.MatchString(version) {
		return "", &ValidationError{
			Field:   "node-version",
			Value:   version,
			Message: "Invalid Node.js version format. Use: 18.x, 18, or 18.17.0",
		}
	}
	return version, nil
}

func (v *NodeVersionValidator) current(ctx context.Context) string {
	raw, err := v.detect(ctx)
	if err != nil {
		return fallbackNodeVersion
	}
	parsed, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return fallbackNodeVersion
	}
	return parsed.String()
}

func detectNodeVersion(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "node", "--version").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
