package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ba86work/create-next-shadcn-pwa/internal/branding"
	"github.com/ba86work/create-next-shadcn-pwa/internal/cache"
	"github.com/ba86work/create-next-shadcn-pwa/internal/config"
	"github.com/ba86work/create-next-shadcn-pwa/internal/fetch"
	"github.com/ba86work/create-next-shadcn-pwa/internal/manager"
	"github.com/ba86work/create-next-shadcn-pwa/internal/overlay"
	"github.com/ba86work/create-next-shadcn-pwa/internal/pkgmanager"
	"github.com/ba86work/create-next-shadcn-pwa/internal/platform"
	"github.com/ba86work/create-next-shadcn-pwa/internal/prompt"
	"github.com/ba86work/create-next-shadcn-pwa/internal/registry"
	"github.com/ba86work/create-next-shadcn-pwa/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	createYes             bool
	createNextVersion     string
	createNodeVersion     string
	createPackageManager  string
	createTypeScript      bool
	createESLint          bool
	createTailwind        bool
	createSrcDir          bool
	createAppRouter       bool
	createTurbo           bool
	createImportAlias     string
	createComponents      bool
	createPWA             bool
	createPWAManifestOnly bool
	createNoCache         bool
)

func init() {
	def := scaffold.DefaultRequest("")
	f := rootCmd.Flags()

	f.BoolVarP(&createYes, "yes", "y", false, "Accept defaults and flags without prompting")
	f.StringVar(&createNextVersion, "next-version", registry.LatestTag, `Next.js version to scaffold (semver or "latest")`)
	f.StringVar(&createNodeVersion, "node-version", "", `Node.js version to pin in .nvmrc (e.g. 18.x, 20, 20.11.1, or "current")`)
	f.StringVar(&createPackageManager, "package-manager", "", "Package manager: "+strings.Join(pkgmanager.Names, ", ")+" (default from config)")
	f.BoolVar(&createTypeScript, "typescript", def.TypeScript, "Use TypeScript")
	f.BoolVar(&createESLint, "eslint", def.ESLint, "Use ESLint")
	f.BoolVar(&createTailwind, "tailwind", def.Tailwind, "Use Tailwind CSS")
	f.BoolVar(&createSrcDir, "src-dir", def.SrcDir, "Put code inside a src/ directory")
	f.BoolVar(&createAppRouter, "app", def.AppRouter, "Use the App Router")
	f.BoolVar(&createTurbo, "turbo", def.Turbo, "Use Turbopack for next dev")
	f.StringVar(&createImportAlias, "import-alias", def.ImportAlias, "Import alias")
	f.BoolVar(&createComponents, "components", def.Components, "Add shadcn/ui components, config files and their dependencies")
	f.BoolVar(&createPWA, "pwa", def.PWA, "Add PWA assets")
	f.BoolVar(&createPWAManifestOnly, "pwa-manifest-only", false, "Copy only public/manifest.json for PWA support")
	f.BoolVar(&createNoCache, "no-cache", false, "Fetch the template even if a cached copy is fresh, and do not cache it")
}

// requestFromFlags builds the ProjectRequest from flags and the optional
// target argument.
func requestFromFlags(args []string, settings config.Settings) scaffold.ProjectRequest {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	req := scaffold.DefaultRequest(name)
	req.TypeScript = createTypeScript
	req.ESLint = createESLint
	req.Tailwind = createTailwind
	req.SrcDir = createSrcDir
	req.AppRouter = createAppRouter
	req.Turbo = createTurbo
	req.ImportAlias = createImportAlias
	req.Components = createComponents
	req.PWA = createPWA
	req.PWAManifestOnly = createPWAManifestOnly
	req.NextVersion = createNextVersion
	req.NodeVersion = createNodeVersion

	req.PackageManager = createPackageManager
	if req.PackageManager == "" {
		req.PackageManager = settings.PackageManager
	}
	return req
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	settings := config.Current()

	req := requestFromFlags(args, settings)
	if !createYes && prompt.IsTerminal(os.Stdin) {
		fmt.Fprintf(stdout, "%s: let's set up your project!\n\n", branding.DisplayName())
		var err error
		req, err = prompt.New(os.Stdin, stdout).AskProject(req, len(args) == 0)
		if err != nil {
			return err
		}
	}

	if err := scaffold.ValidateName(req.Name); err != nil {
		return err
	}
	if !pkgmanager.Supported(req.PackageManager) {
		return fmt.Errorf("unsupported package manager %q: use one of %s", req.PackageManager, strings.Join(pkgmanager.Names, ", "))
	}

	reg := newRegistry(settings)

	nextVersion, err := registry.NewVersionValidator(reg).Validate(ctx, req.NextVersion, "next")
	if err != nil {
		return err
	}
	req.NextVersion = nextVersion

	if req.NodeVersion != "" {
		nodeVersion, err := registry.NewNodeVersionValidator().Validate(ctx, req.NodeVersion)
		if err != nil {
			return err
		}
		req.NodeVersion = nodeVersion
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	projectDir := req.Dir(cwd)
	if _, err := os.Stat(projectDir); err == nil {
		return fmt.Errorf("directory %s already exists", projectDir)
	}

	installer := pkgmanager.Dispatch(req.PackageManager)

	fmt.Fprintf(stdout, "\nCreating %s with Next.js %s...\n\n", req.Name, req.NextVersion)
	gen := scaffold.NewGenerator(scaffold.GeneratorCommand(settings.Generator, installer, req.NextVersion))
	gen.Stdout, gen.Stderr, gen.Stdin = stdout, cmd.ErrOrStderr(), os.Stdin
	if err := gen.Run(ctx, cwd, req); err != nil {
		return err
	}

	if req.NodeVersion != "" {
		if err := scaffold.WriteNodeVersion(projectDir, req.NodeVersion); err != nil {
			return err
		}
	}

	var warnings []string
	if req.WantsTemplate() {
		fmt.Fprintln(stdout, "\nAdding custom features...")

		m := newManager(settings, reg, installer, stdout, cmd.ErrOrStderr())
		out, err := m.Apply(ctx, req, projectDir)
		if err != nil {
			fmt.Fprintf(stdout, "\n[FAIL] Error adding custom features: %v\n", err)
			printManualSteps(stdout, settings, installer)
			return err
		}

		if out.CacheHit {
			fmt.Fprintf(stdout, "  [ OK ] using cached template (%s)\n", shortRef(out.TemplateVersion))
		} else {
			fmt.Fprintf(stdout, "  [ OK ] fetched template (%s)\n", shortRef(out.TemplateVersion))
		}
		if len(out.Installed) > 0 {
			fmt.Fprintf(stdout, "  [ OK ] dependencies: %s\n", strings.Join(out.Installed, " "))
		}
		out.Overlay.Print(stdout)
		warnings = out.Warnings
	}

	return scaffold.RenderNextSteps(stdout, scaffold.NextSteps{
		Name:     req.Name,
		Install:  installer.InstallCommand(),
		Dev:      installer.RunCommand("dev"),
		Warnings: warnings,
	})
}

// newRegistry returns the registry client selected by registry_mode.
func newRegistry(settings config.Settings) registry.Registry {
	if settings.RegistryMode == "npm" {
		return registry.NewNPMRegistry()
	}
	return registry.NewHTTPRegistry(settings.RegistryURL,
		registry.WithUserAgent(branding.CLIName()+"/"+buildVersion),
	)
}

// newStore opens the template cache configured in settings.
func newStore(settings config.Settings, checker cache.DependencyChecker) *cache.Store {
	opts := []cache.Option{
		cache.WithMaxAge(settings.CacheMaxAge),
		cache.WithLogger(logger),
	}
	if checker != nil {
		opts = append(opts, cache.WithDependencyChecker(checker))
	}
	return cache.NewStore(settings.CacheDir, opts...)
}

func newManager(settings config.Settings, reg registry.Registry, installer pkgmanager.Installer, stdout, stderr io.Writer) *manager.Manager {
	checker := registry.NewDependencyValidator(reg)
	fetcher := fetch.NewGitFetcher(settings.TemplateRepo,
		fetch.WithRef(settings.TemplateRef),
		fetch.WithTimeout(settings.FetchTimeout),
		fetch.WithLogger(logger),
	)

	if ci, ok := installer.(*pkgmanager.CommandInstaller); ok {
		ci.Stdout, ci.Stderr = stdout, stderr
	}

	opts := []manager.Option{
		manager.WithDependencyChecker(checker),
		manager.WithInstaller(installer),
		manager.WithLogger(logger),
	}
	if !createNoCache {
		opts = append(opts, manager.WithCache(newStore(settings, checker)))
	}
	return manager.New(fetcher, overlay.New(platform.New(), logger), opts...)
}

func printManualSteps(w io.Writer, settings config.Settings, installer pkgmanager.Installer) {
	add := installer.Name() + " add"
	if installer.Name() == pkgmanager.NPM {
		add = "npm install"
	}
	err := scaffold.RenderManualSteps(w, scaffold.ManualSteps{
		RepoURL:    strings.TrimSuffix(settings.TemplateRepo, ".git"),
		Dirs:       []string{"components", "app"},
		AddCommand: add + " " + strings.Join(pkgmanager.DefaultDependencies, " "),
	})
	if err != nil {
		logger.Warn("rendering manual steps", "error", err)
	}
}

func shortRef(ref string) string {
	if ref == "" {
		return cache.UnknownTemplateVersion
	}
	if len(ref) > 12 {
		return ref[:12]
	}
	return ref
}
