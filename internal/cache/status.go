package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Status summarizes the cache for display.
type Status struct {
	Root        string
	TemplateDir string
	MaxAge      time.Duration
	// Entry is nil when no readable metadata exists.
	Entry       *Entry
	Age         time.Duration
	Fresh       bool
	TreePresent bool
}

// Status inspects the cache without modifying it.
func (s *Store) Status(ctx context.Context) Status {
	st := Status{
		Root:        s.root,
		TemplateDir: s.TemplateDir(),
		MaxAge:      s.maxAge,
	}

	if info, err := os.Stat(st.TemplateDir); err == nil && info.IsDir() {
		st.TreePresent = true
	}

	entry, err := s.Entry(ctx)
	if err != nil {
		return st
	}
	now := s.now()
	st.Entry = entry
	st.Age = entry.Age(now)
	st.Fresh = st.TreePresent && !entry.Stale(now, s.maxAge)
	return st
}

// Print writes a human-readable report.
func (st Status) Print(w io.Writer) {
	fmt.Fprintf(w, "Cache directory: %s\n", st.Root)

	if st.Entry == nil {
		fmt.Fprintln(w, "  [MISS] no cached template")
		return
	}

	marker := "[ OK ]"
	state := "fresh"
	switch {
	case !st.TreePresent:
		marker, state = "[FAIL]", "template directory missing"
	case !st.Fresh:
		marker, state = "[WARN]", "stale"
	}

	fmt.Fprintf(w, "  %s %s\n", marker, state)
	fmt.Fprintf(w, "  Template version: %s\n", st.Entry.TemplateVersion)
	fmt.Fprintf(w, "  Last updated:     %s (%s ago, max age %s)\n",
		st.Entry.UpdatedAt().Format(time.RFC3339), st.Age.Round(time.Second), st.MaxAge)
	fmt.Fprintf(w, "  Dependencies:     %d\n", len(st.Entry.Dependencies))
}
