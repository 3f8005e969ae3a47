// Package overlay copies template content onto a generated project.
//
// Each item is copied independently: a missing or failing item becomes a
// warning in the Report and the remaining items are still attempted. Only
// a missing template root fails the whole Apply.
package overlay

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ba86work/create-next-shadcn-pwa/internal/platform"
)

// ComponentDirs are merged into the project when components are requested.
var ComponentDirs = []string{"components", "app", "lib", "styles"}

// ConfigFiles are the config files copied with the components. The first
// existing candidate of each entry is used.
var ConfigFiles = []ConfigFile{
	{Name: "tailwind.config", Extensions: []string{".ts", ".js", ".mjs", ".cjs"}},
	{Name: "postcss.config", Extensions: []string{".js", ".mjs", ".cjs", ".ts"}},
	{Name: "next.config", Extensions: []string{".js", ".mjs", ".ts", ".cjs"}},
}

const (
	publicDir    = "public"
	manifestFile = "manifest.json"
)

// ConfigFile is a config file base name and its accepted extensions in
// preference order.
type ConfigFile struct {
	Name       string
	Extensions []string
}

// Options selects what Apply copies.
type Options struct {
	Components bool
	PWA        bool
	// ManifestOnly narrows the PWA overlay to public/manifest.json.
	ManifestOnly bool
}

// Report lists what Apply copied and what it skipped.
type Report struct {
	Copied   []string
	Warnings []string
}

// Print writes the report using the [ OK ]/[WARN] markers.
func (r *Report) Print(w io.Writer) {
	for _, item := range r.Copied {
		fmt.Fprintf(w, "  [ OK ] %s\n", item)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  [WARN] %s\n", warning)
	}
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Overlay applies template content to project directories.
type Overlay struct {
	ops    platform.Ops
	logger *slog.Logger
}

// New creates an Overlay. A nil logger discards output.
func New(ops platform.Ops, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Overlay{ops: ops, logger: logger}
}

// Apply copies the selected template content from sourceDir into
// targetDir, overwriting same-named files.
func (o *Overlay) Apply(sourceDir, targetDir string, opts Options) (*Report, error) {
	if !isDir(sourceDir) {
		return nil, &platform.SourceNotFoundError{Path: sourceDir}
	}
	if !isDir(targetDir) {
		return nil, fmt.Errorf("project directory %s does not exist", targetDir)
	}

	report := &Report{}
	if opts.Components {
		o.copyComponentDirs(sourceDir, targetDir, report)
		o.copyConfigFiles(sourceDir, targetDir, report)
	}
	if opts.PWA {
		o.copyPWA(sourceDir, targetDir, opts.ManifestOnly, report)
	}

	o.logger.Debug("overlay applied",
		"source", sourceDir,
		"target", targetDir,
		"copied", len(report.Copied),
		"warnings", len(report.Warnings),
	)
	return report, nil
}

func (o *Overlay) copyComponentDirs(sourceDir, targetDir string, report *Report) {
	for _, dir := range ComponentDirs {
		src := o.ops.PathJoin(sourceDir, dir)
		if !isDir(src) {
			report.warnf("template has no %s/ directory", dir)
			continue
		}
		if err := o.ops.CopyTree(src, o.ops.PathJoin(targetDir, dir)); err != nil {
			o.logger.Warn("copying directory", "dir", dir, "error", err)
			report.warnf("could not copy %s/: %v", dir, err)
			continue
		}
		report.Copied = append(report.Copied, dir+"/")
	}
}

func (o *Overlay) copyConfigFiles(sourceDir, targetDir string, report *Report) {
	for _, cf := range ConfigFiles {
		name, ok := findConfig(o.ops, sourceDir, cf)
		if !ok {
			report.warnf("template has no %s file", cf.Name)
			continue
		}
		if err := o.ops.CopyFile(o.ops.PathJoin(sourceDir, name), o.ops.PathJoin(targetDir, name)); err != nil {
			o.logger.Warn("copying config file", "file", name, "error", err)
			report.warnf("could not copy %s: %v", name, err)
			continue
		}
		report.Copied = append(report.Copied, name)
	}
}

func (o *Overlay) copyPWA(sourceDir, targetDir string, manifestOnly bool, report *Report) {
	dst := o.ops.PathJoin(targetDir, publicDir)
	if err := os.MkdirAll(dst, platform.DirPermNormal); err != nil {
		report.warnf("could not create %s/: %v", publicDir, err)
		return
	}

	src := o.ops.PathJoin(sourceDir, publicDir)
	if manifestOnly {
		rel := publicDir + "/" + manifestFile
		if err := o.ops.CopyFile(o.ops.PathJoin(src, manifestFile), o.ops.PathJoin(dst, manifestFile)); err != nil {
			report.warnf("could not copy %s: %v", rel, err)
			return
		}
		report.Copied = append(report.Copied, rel)
		return
	}

	if !isDir(src) {
		report.warnf("template has no %s/ directory", publicDir)
		return
	}
	if err := o.ops.CopyTree(src, dst); err != nil {
		o.logger.Warn("copying directory", "dir", publicDir, "error", err)
		report.warnf("could not copy %s/: %v", publicDir, err)
		return
	}
	report.Copied = append(report.Copied, publicDir+"/")
}

func findConfig(ops platform.Ops, dir string, cf ConfigFile) (string, bool) {
	for _, ext := range cf.Extensions {
		name := cf.Name + ext
		if info, err := os.Stat(ops.PathJoin(dir, name)); err == nil && info.Mode().IsRegular() {
			return name, true
		}
	}
	return "", false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
