package pkgmanager

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/ba86work/create-next-shadcn-pwa/internal/manifest"
)

// Supported package manager identifiers.
const (
	Bun  = "bun"
	NPM  = "npm"
	PNPM = "pnpm"
	Yarn = "yarn"
)

// Names lists the supported managers.
var Names = []string{Bun, NPM, PNPM, Yarn}

// DefaultDependencies are installed when the template's own dependency set
// cannot be read or validated.
var DefaultDependencies = []string{
	"@radix-ui/react-slot",
	"sonner",
	"class-variance-authority",
	"clsx",
	"tailwind-merge",
	"lucide-react",
}

// ExcludedDependencies are owned by the project generator and never added
// from the template.
var ExcludedDependencies = []string{"react", "react-dom", "next"}

// AdditionalDependencies returns the template dependency names to add to a
// generated project, in declaration order.
func AdditionalDependencies(deps manifest.Dependencies) []string {
	return deps.Without(ExcludedDependencies...).Names()
}

// Installer adds packages to a project.
type Installer interface {
	// Name returns the manager identifier.
	Name() string
	// Add installs pkgs into the project at dir.
	Add(ctx context.Context, dir string, pkgs []string) error
	// InstallCommand is the command a user runs to install a project's deps.
	InstallCommand() string
	// RunCommand is the command a user runs to start a package script.
	RunCommand(script string) string
	// CreateCommand is the argv prefix that runs a create-* package.
	CreateCommand(pkg string) []string
}

// Supported reports whether name is a known manager.
func Supported(name string) bool {
	return slices.Contains(Names, name)
}

// Dispatch returns the Installer for name.
func Dispatch(name string) Installer {
	switch name {
	case Bun:
		return &CommandInstaller{name: Bun, addVerb: "add", runPrefix: "bun", create: []string{"bun", "create"}}
	case NPM:
		return &CommandInstaller{name: NPM, addVerb: "install", runPrefix: "npm run", create: []string{"npx"}}
	case PNPM:
		return &CommandInstaller{name: PNPM, addVerb: "add", runPrefix: "pnpm", create: []string{"pnpm", "create"}}
	case Yarn:
		return &CommandInstaller{name: Yarn, addVerb: "add", runPrefix: "yarn", create: []string{"yarn", "create"}}
	default:
		return &unknownInstaller{name: name}
	}
}

// CommandInstaller shells out to a package manager binary.
type CommandInstaller struct {
	name      string
	addVerb   string
	runPrefix string
	create    []string

	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

func (c *CommandInstaller) Name() string { return c.name }

// Add runs `<manager> <add-verb> <pkgs...>` in dir, streaming output to the
// configured writers. Nothing is run when pkgs is empty.
func (c *CommandInstaller) Add(ctx context.Context, dir string, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}

	bin, err := exec.LookPath(c.name)
	if err != nil {
		return fmt.Errorf("%s is required but not found in PATH", c.name)
	}

	args := append([]string{c.addVerb}, pkgs...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	stdout := c.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := c.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stderrBuf bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w\n%s", c.name, strings.Join(args, " "), err, strings.TrimSpace(stderrBuf.String()))
	}
	return nil
}

func (c *CommandInstaller) InstallCommand() string {
	if c.name == Yarn {
		return Yarn
	}
	return c.name + " install"
}

func (c *CommandInstaller) RunCommand(script string) string {
	return c.runPrefix + " " + script
}

func (c *CommandInstaller) CreateCommand(pkg string) []string {
	if c.name == NPM {
		return append(slices.Clone(c.create), "create-"+pkg)
	}
	return append(slices.Clone(c.create), pkg)
}

// unknownInstaller is returned when the manager identifier is not recognized.
type unknownInstaller struct {
	name string
}

func (u *unknownInstaller) Name() string { return u.name }

func (u *unknownInstaller) Add(context.Context, string, []string) error {
	return fmt.Errorf("unknown package manager %q: supported managers are %s", u.name, strings.Join(Names, ", "))
}

func (u *unknownInstaller) InstallCommand() string { return u.name + " install" }

func (u *unknownInstaller) RunCommand(script string) string { return u.name + " run " + script }

func (u *unknownInstaller) CreateCommand(pkg string) []string { return []string{u.name, "create", pkg} }
