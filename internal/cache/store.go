package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/ba86work/create-next-shadcn-pwa/internal/manifest"
	"github.com/ba86work/create-next-shadcn-pwa/internal/platform"
	"github.com/ba86work/create-next-shadcn-pwa/internal/registry"
)

const (
	metadataFileName = "cache.json"
	templateDirName  = "template"
	lockFileName     = "cache.lock"
	stagingPrefix    = templateDirName + ".staging-"

	// DefaultMaxAge is how long a cached template is reused.
	DefaultMaxAge = 24 * time.Hour

	lockRetryDelay = 50 * time.Millisecond
)

// DependencyChecker validates a dependency set before it is cached.
// *registry.DependencyValidator satisfies it.
type DependencyChecker interface {
	ValidateAll(ctx context.Context, deps manifest.Dependencies) *registry.DependencyValidationResult
}

// Store manages the cache directory. It is the only writer of that
// directory; concurrent processes are serialized through cache.lock.
type Store struct {
	root    string
	ops     platform.Ops
	checker DependencyChecker
	maxAge  time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithOps sets the filesystem capability (defaults to platform.New()).
func WithOps(ops platform.Ops) Option {
	return func(s *Store) { s.ops = ops }
}

// WithDependencyChecker validates dependencies before every Populate.
func WithDependencyChecker(c DependencyChecker) Option {
	return func(s *Store) { s.checker = c }
}

// WithMaxAge overrides DefaultMaxAge. Non-positive values are ignored.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithClock replaces time.Now (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a Store rooted at root. Nothing is touched on disk
// until EnsureReady or Populate is called.
func NewStore(root string, opts ...Option) *Store {
	s := &Store{
		root:   root,
		ops:    platform.New(),
		maxAge: DefaultMaxAge,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the cache root directory.
func (s *Store) Root() string { return s.root }

// TemplateDir returns the path of the cached template tree.
func (s *Store) TemplateDir() string { return s.ops.PathJoin(s.root, templateDirName) }

// MetadataPath returns the path of cache.json.
func (s *Store) MetadataPath() string { return s.ops.PathJoin(s.root, metadataFileName) }

// MaxAge returns the freshness window.
func (s *Store) MaxAge() time.Duration { return s.maxAge }

// EnsureReady creates the cache root if needed.
func (s *Store) EnsureReady() error {
	if err := os.MkdirAll(s.root, platform.DirPermNormal); err != nil {
		return &UnavailableError{Path: s.root, Err: err}
	}
	return nil
}

// Get returns the cached template directory when a fresh entry exists.
// Every failure (missing or corrupt metadata, stale entry, missing tree,
// lock contention) is a miss.
func (s *Store) Get(ctx context.Context) (string, bool) {
	lease, ok := s.Acquire(ctx)
	if !ok {
		return "", false
	}
	lease.Release()
	return lease.Dir, true
}

// Lease is a fresh cache entry held under the shared lock. Populate and
// Clear wait until it is released.
type Lease struct {
	Dir   string
	Entry *Entry

	unlock func()
}

// Release drops the shared lock. It is safe to call more than once.
func (l *Lease) Release() {
	if l.unlock != nil {
		l.unlock()
		l.unlock = nil
	}
}

// Acquire is Get that keeps the shared lock until the lease is released,
// so the tree cannot be swapped out while the caller reads it.
func (s *Store) Acquire(ctx context.Context) (*Lease, bool) {
	unlock, err := s.lock(ctx, false)
	if err != nil {
		s.logger.Debug("cache miss", "reason", "lock", "error", err)
		return nil, false
	}

	entry, err := readEntry(s.MetadataPath())
	if err != nil {
		unlock()
		s.logger.Debug("cache miss", "reason", "metadata", "error", err)
		return nil, false
	}

	now := s.now()
	if entry.Stale(now, s.maxAge) {
		unlock()
		s.logger.Debug("cache miss", "reason", "stale", "age", entry.Age(now).Round(time.Second))
		return nil, false
	}

	dir := s.TemplateDir()
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		unlock()
		s.logger.Debug("cache miss", "reason", "template directory missing", "path", dir)
		return nil, false
	}

	s.logger.Debug("cache hit", "path", dir, "template_version", entry.TemplateVersion)
	return &Lease{Dir: dir, Entry: entry, unlock: unlock}, true
}

// Entry returns the stored metadata regardless of its age.
func (s *Store) Entry(ctx context.Context) (*Entry, error) {
	unlock, err := s.lock(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return readEntry(s.MetadataPath())
}

type populateConfig struct {
	validation *registry.DependencyValidationResult
}

// PopulateOption adjusts one Populate call.
type PopulateOption func(*populateConfig)

// WithValidationResult supplies the outcome of an earlier ValidateAll over
// the same dependency set, so Populate does not query the registry again.
// A nil result is ignored.
func WithValidationResult(r *registry.DependencyValidationResult) PopulateOption {
	return func(c *populateConfig) { c.validation = r }
}

// Populate replaces the cached template with a copy of sourceDir.
//
// A missing sourceDir fails with *platform.SourceNotFoundError and a
// dependency set rejected by the checker fails with
// *registry.DependencyValidationError; in both cases the existing cache is
// untouched. Copy and commit failures are reported as *PopulationError.
func (s *Store) Populate(ctx context.Context, sourceDir string, deps manifest.Dependencies, templateVersion string, opts ...PopulateOption) error {
	var cfg populateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return &platform.SourceNotFoundError{Path: sourceDir}
	}

	result := cfg.validation
	if result == nil && s.checker != nil {
		result = s.checker.ValidateAll(ctx, deps)
	}
	if result != nil {
		if err := result.Err(); err != nil {
			return err
		}
	}

	if err := s.EnsureReady(); err != nil {
		return err
	}

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	staging := s.ops.PathJoin(s.root, stagingPrefix+uuid.NewString())
	if err := s.ops.CopyTree(sourceDir, staging); err != nil {
		s.removeQuietly(staging)
		return &PopulationError{Step: "copy", Err: err}
	}

	// Drop the old metadata first so a crash during the swap leaves a miss.
	if err := os.Remove(s.MetadataPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.removeQuietly(staging)
		return &PopulationError{Step: "invalidate", Err: err}
	}
	if err := s.ops.RemoveTree(s.TemplateDir()); err != nil {
		s.removeQuietly(staging)
		return &PopulationError{Step: "remove previous template", Err: err}
	}
	if err := os.Rename(staging, s.TemplateDir()); err != nil {
		s.removeQuietly(staging)
		return &PopulationError{Step: "swap", Err: err}
	}

	if templateVersion == "" {
		templateVersion = UnknownTemplateVersion
	}
	if deps == nil {
		deps = manifest.Dependencies{}
	}
	entry := &Entry{
		LastUpdated:     s.now().UnixMilli(),
		TemplateVersion: templateVersion,
		Dependencies:    deps,
	}
	if err := writeEntry(s.MetadataPath(), entry); err != nil {
		return &PopulationError{Step: "metadata", Err: err}
	}

	s.logger.Info("template cached",
		"path", s.TemplateDir(),
		"template_version", templateVersion,
		"dependencies", len(deps),
	)
	return nil
}

// Clear removes the cached template, its metadata and leftover staging
// directories. Clearing an empty cache is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := os.Stat(s.root); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.MetadataPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing cache metadata: %w", err)
	}
	if err := s.ops.RemoveTree(s.TemplateDir()); err != nil {
		return err
	}

	leftovers, _ := filepath.Glob(s.ops.PathJoin(s.root, stagingPrefix+"*"))
	for _, dir := range leftovers {
		if err := s.ops.RemoveTree(dir); err != nil {
			return err
		}
	}

	s.logger.Info("cache cleared", "path", s.root)
	return nil
}

// lock takes cache.lock, exclusive for writers and shared for readers,
// and returns the matching release func.
func (s *Store) lock(ctx context.Context, exclusive bool) (func(), error) {
	fl := flock.New(s.ops.PathJoin(s.root, lockFileName))

	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = fl.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = fl.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, &UnavailableError{Path: fl.Path(), Err: err}
	}
	if !ok {
		return nil, &UnavailableError{Path: fl.Path(), Err: errors.New("lock not acquired")}
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("releasing cache lock", "error", err)
		}
	}, nil
}

func (s *Store) removeQuietly(path string) {
	if err := s.ops.RemoveTree(path); err != nil {
		s.logger.Warn("removing staging directory", "path", path, "error", err)
	}
}
