package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ba86work/create-next-shadcn-pwa/internal/cache"
	"github.com/ba86work/create-next-shadcn-pwa/internal/fetch"
	"github.com/ba86work/create-next-shadcn-pwa/internal/manifest"
	"github.com/ba86work/create-next-shadcn-pwa/internal/overlay"
	"github.com/ba86work/create-next-shadcn-pwa/internal/pkgmanager"
	"github.com/ba86work/create-next-shadcn-pwa/internal/platform"
	"github.com/ba86work/create-next-shadcn-pwa/internal/registry"
	"github.com/ba86work/create-next-shadcn-pwa/internal/scaffold"
)

// State is a step of one Apply call.
type State string

const (
	StateCheckCache    State = "check-cache"
	StateCacheHit      State = "cache-hit"
	StateCacheMiss     State = "cache-miss"
	StateFetch         State = "fetch"
	StateValidateDeps  State = "validate-deps"
	StateOverlay       State = "overlay"
	StateCachePopulate State = "cache-populate"
	StateDone          State = "done"
	StateAborted       State = "aborted"
)

// TemplateCache is the subset of *cache.Store the manager uses.
type TemplateCache interface {
	EnsureReady() error
	Acquire(ctx context.Context) (*cache.Lease, bool)
	Populate(ctx context.Context, sourceDir string, deps manifest.Dependencies, templateVersion string, opts ...cache.PopulateOption) error
}

// Overlayer copies template content into a project.
type Overlayer interface {
	Apply(sourceDir, targetDir string, opts overlay.Options) (*overlay.Report, error)
}

// Outcome records what one Apply call did.
type Outcome struct {
	// States lists every state entered, in order.
	States []State

	CacheHit        bool
	TemplateDir     string
	TemplateVersion string

	// Dependencies is the template's declared dependency set.
	Dependencies     manifest.Dependencies
	DependencyErrors []string
	// Installed lists the packages handed to the installer.
	Installed               []string
	UsedDefaultDependencies bool

	Overlay *overlay.Report
	// CacheErr is the swallowed caching failure, if any.
	CacheErr error
	Warnings []string

	validation *registry.DependencyValidationResult
}

// Final returns the last state entered.
func (o *Outcome) Final() State {
	if len(o.States) == 0 {
		return ""
	}
	return o.States[len(o.States)-1]
}

func (o *Outcome) enter(s State) {
	o.States = append(o.States, s)
}

func (o *Outcome) warnf(format string, args ...any) {
	o.Warnings = append(o.Warnings, fmt.Sprintf(format, args...))
}

// Manager orchestrates cache, fetcher, dependency validation, installer
// and overlay for one project.
type Manager struct {
	fetcher   fetch.Fetcher
	overlay   Overlayer
	cache     TemplateCache
	checker   cache.DependencyChecker
	installer pkgmanager.Installer
	ops       platform.Ops
	workDir   func() string
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithCache enables the template cache.
func WithCache(c TemplateCache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithDependencyChecker validates the template's dependencies.
func WithDependencyChecker(c cache.DependencyChecker) Option {
	return func(m *Manager) { m.checker = c }
}

// WithInstaller installs dependencies when components are requested.
func WithInstaller(i pkgmanager.Installer) Option {
	return func(m *Manager) { m.installer = i }
}

// WithOps sets the filesystem operations used to remove working
// directories (defaults to platform.New()).
func WithOps(ops platform.Ops) Option {
	return func(m *Manager) { m.ops = ops }
}

// WithWorkDir sets the generator of fetch working directories
// (defaults to fetch.WorkDir).
func WithWorkDir(f func() string) Option {
	return func(m *Manager) { m.workDir = f }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates a Manager.
func New(fetcher fetch.Fetcher, ov Overlayer, opts ...Option) *Manager {
	m := &Manager{
		fetcher: fetcher,
		overlay: ov,
		ops:     platform.New(),
		workDir: fetch.WorkDir,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply overlays the template onto projectDir according to req. The
// returned error is non-nil only when the outcome is Aborted; it is then
// a *fetch.Error or a *platform.SourceNotFoundError.
func (m *Manager) Apply(ctx context.Context, req scaffold.ProjectRequest, projectDir string) (*Outcome, error) {
	out := &Outcome{}

	if !req.WantsTemplate() {
		out.enter(StateDone)
		return out, nil
	}

	out.enter(StateCheckCache)
	cacheUsable := m.cache != nil
	if cacheUsable {
		if err := m.cache.EnsureReady(); err != nil {
			m.logger.Warn("template cache disabled", "error", err)
			out.CacheErr = err
			out.warnf("template cache unavailable: %v", err)
			cacheUsable = false
		}
	}

	fresh := false
	if lease, ok := m.lookup(ctx, cacheUsable); ok {
		// Held through overlay so a concurrent populate cannot swap the tree.
		defer lease.Release()
		out.enter(StateCacheHit)
		out.CacheHit = true
		out.TemplateDir = lease.Dir
		out.TemplateVersion = lease.Entry.TemplateVersion
	} else {
		out.enter(StateCacheMiss)
		out.enter(StateFetch)

		workDir := m.workDir()
		// The cache keeps its own copy, so the working tree never outlives Apply.
		defer m.cleanup(workDir)

		res, err := m.fetcher.Fetch(ctx, workDir)
		if err != nil {
			out.enter(StateAborted)
			m.logger.Error("template fetch failed", "error", err)
			var fe *fetch.Error
			if !errors.As(err, &fe) {
				err = &fetch.Error{Repo: "template", Err: err}
			}
			return out, err
		}
		fresh = true
		out.TemplateDir = res.Dir
		out.TemplateVersion = res.Ref
	}

	out.enter(StateValidateDeps)
	m.validateAndInstall(ctx, req, projectDir, out)

	out.enter(StateOverlay)
	report, err := m.overlay.Apply(out.TemplateDir, projectDir, overlay.Options{
		Components:   req.Components,
		PWA:          req.PWA,
		ManifestOnly: req.PWAManifestOnly,
	})
	if err != nil {
		out.enter(StateAborted)
		m.logger.Error("overlay failed", "error", err)
		return out, err
	}
	out.Overlay = report
	out.Warnings = append(out.Warnings, report.Warnings...)

	if fresh && cacheUsable {
		out.enter(StateCachePopulate)
		err := m.cache.Populate(ctx, out.TemplateDir, out.Dependencies, out.TemplateVersion,
			cache.WithValidationResult(out.validation))
		if err != nil {
			m.logger.Warn("template not cached", "error", err)
			out.CacheErr = err
			out.warnf("template not cached: %v", err)
		}
	}

	out.enter(StateDone)
	m.logger.Debug("template applied",
		"project", projectDir,
		"cache_hit", out.CacheHit,
		"template_version", out.TemplateVersion,
		"warnings", len(out.Warnings),
	)
	return out, nil
}

func (m *Manager) lookup(ctx context.Context, cacheUsable bool) (*cache.Lease, bool) {
	if !cacheUsable {
		return nil, false
	}
	return m.cache.Acquire(ctx)
}

// validateAndInstall reads the template's package.json, validates its
// dependencies and installs them (or the defaults) when components are
// requested.
func (m *Manager) validateAndInstall(ctx context.Context, req scaffold.ProjectRequest, projectDir string, out *Outcome) {
	useDefaults := false

	pkg, err := manifest.ParsePackageJSON(filepath.Join(out.TemplateDir, manifest.PackageFile))
	if err != nil {
		m.logger.Warn("reading template dependencies", "error", err)
		out.warnf("could not read template dependencies: %v", err)
		useDefaults = true
	} else if pkg.Dependencies == nil {
		out.warnf("template %s declares no dependencies", manifest.PackageFile)
		useDefaults = true
	} else {
		out.Dependencies = pkg.Dependencies
		if m.checker != nil {
			result := m.checker.ValidateAll(ctx, pkg.Dependencies)
			out.validation = result
			if !result.Valid {
				out.DependencyErrors = result.Errors
				out.Warnings = append(out.Warnings, result.Errors...)
				m.logger.Warn("template dependencies failed validation", "errors", len(result.Errors))
				useDefaults = true
			}
		}
	}

	if !req.Components {
		return
	}

	pkgs := pkgmanager.AdditionalDependencies(out.Dependencies)
	if useDefaults {
		pkgs = pkgmanager.DefaultDependencies
		out.UsedDefaultDependencies = true
	}
	out.Installed = pkgs

	if m.installer == nil || len(pkgs) == 0 {
		return
	}
	if err := m.installer.Add(ctx, projectDir, pkgs); err != nil {
		m.logger.Warn("installing dependencies", "manager", m.installer.Name(), "error", err)
		out.warnf("could not install dependencies: %v", err)
	}
}

func (m *Manager) cleanup(dir string) {
	if err := m.ops.RemoveTree(dir); err != nil {
		m.logger.Warn("removing working directory", "path", dir, "error", err)
	}
}
