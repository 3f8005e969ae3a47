package scaffold

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/ba86work/create-next-shadcn-pwa/internal/registry"
)

const (
	// DefaultProjectName is offered when no target is given.
	DefaultProjectName = "my-app"
	// DefaultImportAlias is passed to the generator unless overridden.
	DefaultImportAlias = "@/*"
)

// ProjectRequest is the resolved set of user choices for one scaffold.
type ProjectRequest struct {
	Name string

	TypeScript  bool
	ESLint      bool
	Tailwind    bool
	SrcDir      bool
	AppRouter   bool
	Turbo       bool
	ImportAlias string

	// Components overlays the UI components, config files and their deps.
	Components bool
	PWA        bool
	// PWAManifestOnly narrows the PWA overlay to public/manifest.json.
	PWAManifestOnly bool

	// NextVersion pins the generator ("latest" or empty means unpinned).
	NextVersion string
	// NodeVersion is written to .nvmrc when set.
	NodeVersion string

	PackageManager string
}

// DefaultRequest returns the choices a user gets by accepting every prompt.
func DefaultRequest(name string) ProjectRequest {
	if name == "" {
		name = DefaultProjectName
	}
	return ProjectRequest{
		Name:        name,
		TypeScript:  true,
		ESLint:      true,
		Tailwind:    true,
		SrcDir:      false,
		AppRouter:   true,
		Turbo:       false,
		ImportAlias: DefaultImportAlias,
		Components:  true,
		PWA:         true,
		NextVersion: registry.LatestTag,
	}
}

// WantsTemplate reports whether any overlay was requested.
func (r ProjectRequest) WantsTemplate() bool {
	return r.Components || r.PWA
}

// Alias returns the import alias, defaulting to @/*.
func (r ProjectRequest) Alias() string {
	if r.ImportAlias == "" {
		return DefaultImportAlias
	}
	return r.ImportAlias
}

// Dir returns the project directory under cwd.
func (r ProjectRequest) Dir(cwd string) string {
	return filepath.Join(cwd, r.Name)
}

// ReservedNames are the CLI subcommands. A bare positional argument with
// one of these names runs the subcommand, so such a project must be given
// as a path (./cache).
var ReservedNames = []string{"cache", "completion", "config", "doctor", "help", "version"}

// ValidateName checks that the project directory name is usable as an npm
// package name, which create-next-app requires, and is not a subcommand.
func ValidateName(name string) error {
	if slices.Contains(ReservedNames, name) {
		return &registry.ValidationError{
			Field:   "name",
			Value:   name,
			Message: fmt.Sprintf("Project name %q is a subcommand: pass it as ./%s", name, name),
		}
	}
	if err := registry.ValidatePackageName(filepath.Base(name)); err != nil {
		return &registry.ValidationError{
			Field:   "name",
			Value:   name,
			Message: fmt.Sprintf("Invalid project name %q: use lowercase letters, digits, '-', '.', '_' or '~'", name),
		}
	}
	return nil
}
