package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ba86work/create-next-shadcn-pwa/internal/manifest"
)

// UnknownTemplateVersion stamps entries whose source ref could not be resolved.
const UnknownTemplateVersion = "unknown"

// Entry is the persisted metadata of the cached template.
type Entry struct {
	// LastUpdated is the population time in Unix milliseconds.
	LastUpdated     int64                 `json:"lastUpdated"`
	TemplateVersion string                `json:"templateVersion"`
	Dependencies    manifest.Dependencies `json:"dependencies"`
}

// UpdatedAt returns LastUpdated as a time.
func (e *Entry) UpdatedAt() time.Time {
	return time.UnixMilli(e.LastUpdated)
}

// Age returns how long ago the entry was written, relative to now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.UpdatedAt())
}

// Stale reports whether the entry has reached maxAge. An entry exactly
// maxAge old is stale.
func (e *Entry) Stale(now time.Time, maxAge time.Duration) bool {
	return e.Age(now) >= maxAge
}

// readEntry loads and schema-checks the metadata file at path.
func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cache metadata: %w", err)
	}

	result, err := manifest.Validate(manifest.SchemaCacheEntry, data)
	if err != nil {
		return nil, fmt.Errorf("parsing cache metadata: %w", err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid cache metadata: %s", result.Summary())
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parsing cache metadata: %w", err)
	}
	return &entry, nil
}

// writeEntry commits entry to path through a temp file and rename.
func writeEntry(path string, entry *Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache metadata: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing cache metadata: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing cache metadata: %w", err)
	}
	return nil
}
