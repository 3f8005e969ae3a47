package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/ba86work/create-next-shadcn-pwa/internal/branding"
	"github.com/ba86work/create-next-shadcn-pwa/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose   bool
	logFormat string

	logger = slog.New(slog.DiscardHandler)
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [target]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a Next.js application with create-next-app, then overlays
shadcn/ui components, config files and PWA assets from the starter template
repository. The template is cached under ~/` + branding.HomeDir() + ` for 24 hours.

A project named like a subcommand (cache, config, doctor, version) must be
given as a path, e.g. ./cache.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		l, err := newLogger(os.Stderr, verbose, logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: runCreate,
}

// Execute runs the root command with build info injected via ldflags.
// Failures are reported on stderr together with troubleshooting hints.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(os.Stderr, err, runtime.GOOS)
	}
	return err
}

func reportError(w io.Writer, err error, goos string) {
	fmt.Fprintf(w, "\n[FAIL] Error: %v\n", err)
	fmt.Fprintln(w, "\nTroubleshooting:")
	for _, hint := range troubleshootingHints(goos) {
		fmt.Fprintf(w, "  - %s\n", hint)
	}
}

// newLogger builds the process logger. Only warnings and errors are logged
// unless verbose is set.
func newLogger(w io.Writer, verbose bool, format string) (*slog.Logger, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown --log-format %q: use text or json", format)
	}
}
