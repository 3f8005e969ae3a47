// Package fetch retrieves the remote template repository.
//
// The fetcher is the only component that talks to git. It produces a plain
// directory tree (no .git) plus the commit it was taken from, which the
// cache records as the template version.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ba86work/create-next-shadcn-pwa/internal/branding"
	"github.com/ba86work/create-next-shadcn-pwa/internal/platform"
)

// DefaultTimeout bounds one clone.
const DefaultTimeout = 2 * time.Minute

// ErrFetch is matched by errors.Is for every *Error.
var ErrFetch = errors.New("template fetch failed")

// Error reports a failed template fetch. It aborts the invocation.
type Error struct {
	Repo string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetching template from %s: %v", e.Repo, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetch) true.
func (e *Error) Is(target error) bool {
	return target == ErrFetch
}

// Result describes a fetched template tree.
type Result struct {
	Dir string
	// Ref is the commit the tree was checked out at, or empty when unknown.
	Ref string
}

// Fetcher populates dest with a copy of the template repository.
type Fetcher interface {
	Fetch(ctx context.Context, dest string) (*Result, error)
}

// WorkDir returns a fresh, not yet created path under the OS temp dir for
// one fetch.
func WorkDir() string {
	return filepath.Join(os.TempDir(), branding.CLIName()+"-"+uuid.NewString())
}

// GitFetcher shallow-clones a git repository.
type GitFetcher struct {
	repoURL string
	ref     string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a GitFetcher.
type Option func(*GitFetcher)

// WithRef checks out a branch or tag instead of the default branch. An
// empty ref keeps the default.
func WithRef(ref string) Option {
	return func(f *GitFetcher) { f.ref = ref }
}

// WithTimeout bounds each clone. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(f *GitFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *GitFetcher) { f.logger = l }
}

// NewGitFetcher creates a fetcher for repoURL.
func NewGitFetcher(repoURL string, opts ...Option) *GitFetcher {
	f := &GitFetcher{
		repoURL: repoURL,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch clones the repository into dest, replacing anything already there.
//
// The clone is atomic: it writes to a sibling temp directory first, then
// renames on success. On failure the temp directory is cleaned up and
// dest is left as it was.
func (f *GitFetcher) Fetch(ctx context.Context, dest string) (*Result, error) {
	if err := ensureGit(); err != nil {
		return nil, &Error{Repo: f.repoURL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	tmpDir := dest + ".tmp-" + uuid.NewString()[:8]
	if err := os.MkdirAll(filepath.Dir(tmpDir), platform.DirPermNormal); err != nil {
		return nil, &Error{Repo: f.repoURL, Err: fmt.Errorf("creating parent directory: %w", err)}
	}

	f.logger.Debug("cloning template", "repo", f.repoURL, "ref", f.ref, "dir", tmpDir)
	started := time.Now()

	if err := f.clone(ctx, tmpDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, &Error{Repo: f.repoURL, Err: err}
	}

	ref, err := headCommit(ctx, tmpDir)
	if err != nil {
		f.logger.Warn("resolving template commit", "error", err)
	}

	// The tree is used as plain files from here on.
	if err := os.RemoveAll(filepath.Join(tmpDir, ".git")); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, &Error{Repo: f.repoURL, Err: fmt.Errorf("removing .git: %w", err)}
	}

	if err := os.RemoveAll(dest); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, &Error{Repo: f.repoURL, Err: fmt.Errorf("removing existing directory: %w", err)}
	}
	if err := os.Rename(tmpDir, dest); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, &Error{Repo: f.repoURL, Err: fmt.Errorf("finalizing clone: %w", err)}
	}

	f.logger.Info("template fetched",
		"repo", f.repoURL,
		"commit", ref,
		"duration", time.Since(started).Round(time.Millisecond),
	)
	return &Result{Dir: dest, Ref: ref}, nil
}

func (f *GitFetcher) clone(ctx context.Context, targetDir string) error {
	args := []string{"clone", "--depth=1", "--quiet"}
	if f.ref != "" {
		args = append(args, "--branch", f.ref)
	}
	args = append(args, f.repoURL, targetDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	// Never block on a credential prompt.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("shallow clone: %w", ctx.Err())
		}
		return fmt.Errorf("shallow clone: %w\n%s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// headCommit returns the commit SHA checked out in dir.
func headCommit(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ensureGit checks that git is available on PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
