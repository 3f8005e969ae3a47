package scaffold

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/ba86work/create-next-shadcn-pwa/internal/pkgmanager"
	"github.com/ba86work/create-next-shadcn-pwa/internal/registry"
)

const generatorPackage = "next-app"

// GeneratorCommand returns the argv prefix that creates a Next.js project.
// A non-empty configured command wins over the package manager's create
// command. A pinned version is appended to the last element.
func GeneratorCommand(configured string, inst pkgmanager.Installer, nextVersion string) []string {
	var argv []string
	if fields := strings.Fields(configured); len(fields) > 0 {
		argv = fields
	} else {
		argv = inst.CreateCommand(generatorPackage)
	}

	if nextVersion != "" && nextVersion != registry.LatestTag {
		argv = slices.Clone(argv)
		argv[len(argv)-1] += "@" + nextVersion
	}
	return argv
}

// Generator runs the external project generator.
type Generator struct {
	command []string

	// Stdout and Stderr default to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// NewGenerator creates a Generator that runs command followed by the
// project arguments.
func NewGenerator(command []string) *Generator {
	return &Generator{command: command}
}

// Args returns the generator flags for req.
func Args(req ProjectRequest) []string {
	return []string{
		req.Name,
		"--yes",
		boolFlag("typescript", req.TypeScript),
		boolFlag("eslint", req.ESLint),
		boolFlag("tailwind", req.Tailwind),
		boolFlag("src-dir", req.SrcDir),
		boolFlag("app", req.AppRouter),
		boolFlag("turbo", req.Turbo),
		"--import-alias=" + req.Alias(),
	}
}

// Argv returns the full command line for req.
func (g *Generator) Argv(req ProjectRequest) []string {
	return append(slices.Clone(g.command), Args(req)...)
}

// Run creates the project in cwd. The generator's output is streamed.
func (g *Generator) Run(ctx context.Context, cwd string, req ProjectRequest) error {
	if len(g.command) == 0 {
		return fmt.Errorf("no project generator configured")
	}
	argv := g.Argv(req)

	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%s is required but not found in PATH", argv[0])
	}

	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Dir = cwd
	cmd.Stdout = writerOr(g.Stdout, os.Stdout)
	cmd.Stderr = writerOr(g.Stderr, os.Stderr)
	cmd.Stdin = g.Stdin

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", strings.Join(argv, " "), err)
	}

	if _, err := os.Stat(req.Dir(cwd)); err != nil {
		return fmt.Errorf("generator did not create %s: %w", req.Dir(cwd), err)
	}
	return nil
}

func boolFlag(name string, v bool) string {
	return fmt.Sprintf("--%s=%t", name, v)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
