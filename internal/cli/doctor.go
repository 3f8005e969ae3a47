package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ba86work/create-next-shadcn-pwa/internal/config"
	"github.com/ba86work/create-next-shadcn-pwa/internal/pkgmanager"
	"github.com/ba86work/create-next-shadcn-pwa/internal/platform"
	"github.com/ba86work/create-next-shadcn-pwa/internal/registry"
	"github.com/spf13/cobra"
)

var checkRegistry bool

func init() {
	doctorCmd.Flags().BoolVar(&checkRegistry, "check-registry", false, "Also resolve next@latest against the package registry")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the tools and directories scaffolding depends on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Current()
		w := cmd.OutOrStdout()

		runRuntimeCheck(w, settings.PackageManager)
		runCacheCheck(w, settings.CacheDir)
		if checkRegistry {
			runRegistryCheck(cmd.Context(), w, newRegistry(settings), settings.RegistryMode)
		}
		return nil
	},
}

func runRuntimeCheck(w io.Writer, pm string) {
	fmt.Fprintln(w, "Runtime check:")
	checkBinary(w, "git")
	checkBinary(w, "node")
	if !pkgmanager.Supported(pm) {
		fmt.Fprintf(w, "  [FAIL] package_manager %q is not supported\n", pm)
		return
	}
	checkBinary(w, pm)
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runCacheCheck(w io.Writer, dir string) {
	fmt.Fprintln(w, "Cache check:")

	if err := os.MkdirAll(dir, platform.DirPermNormal); err != nil {
		fmt.Fprintf(w, "  [FAIL] %s cannot be created: %v\n", dir, err)
		return
	}

	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s is not writable: %v\n", dir, err)
		return
	}
	probe.Close()
	os.Remove(probe.Name())
	fmt.Fprintf(w, "  [ OK ] %s is writable\n", dir)

	if platform.IsSymlinkSupported(dir) {
		fmt.Fprintln(w, "  [ OK ] symlinks supported")
	} else {
		fmt.Fprintln(w, "  [WARN] symlinks not supported; template symlinks are copied as files")
	}

	if _, err := os.Stat(filepath.Join(dir, "template")); err != nil {
		fmt.Fprintln(w, "  [MISS] no cached template")
	}
}

func runRegistryCheck(ctx context.Context, w io.Writer, reg registry.Registry, mode string) {
	fmt.Fprintf(w, "Registry check (%s):\n", mode)
	v, err := reg.Resolve(ctx, "next", registry.LatestTag)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	fmt.Fprintf(w, "  [ OK ] next@latest resolves to %s\n", v)
}
