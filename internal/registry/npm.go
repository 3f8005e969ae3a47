package registry

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner executes a program and returns its stdout.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// NPMRegistry resolves versions by running `npm view <name>@<version> version`.
type NPMRegistry struct {
	run commandRunner
}

// NewNPMRegistry creates a registry backed by the npm CLI on PATH.
func NewNPMRegistry() *NPMRegistry {
	return &NPMRegistry{run: runCommand}
}

// Resolve implements Registry.
func (r *NPMRegistry) Resolve(ctx context.Context, name, version string) (string, error) {
	if err := ValidatePackageName(name); err != nil {
		return "", err
	}

	out, err := r.run(ctx, "npm", "view", name+"@"+version, "version")
	if err != nil {
		return "", &NotFoundError{Name: name, Version: version, Err: err}
	}

	resolved := lastViewedVersion(string(out))
	if resolved == "" {
		return "", &NotFoundError{Name: name, Version: version}
	}
	return resolved, nil
}

// lastViewedVersion extracts the version from `npm view` output. Exact
// lookups print a bare version; ranges print one "name@v 'v'" line per
// match in ascending order, so the last line is the highest.
func lastViewedVersion(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return ""
	}
	fields := strings.Fields(last)
	return strings.Trim(fields[len(fields)-1], "'\"")
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%s not found in PATH", name)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
