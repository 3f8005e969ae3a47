package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Dependency is one name -> version (or range) declaration.
type Dependency struct {
	Name    string
	Version string
}

// String returns the "name@version" form used by package registries.
func (d Dependency) String() string {
	return d.Name + "@" + d.Version
}

// Dependencies is an ordered dependency mapping. It encodes to and decodes
// from a JSON object while keeping the declaration order.
type Dependencies []Dependency

// MarshalJSON writes the dependencies as a JSON object in slice order.
func (d Dependencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dep := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(dep.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(dep.Version)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of string values, keeping key order.
// A JSON null decodes to nil; an empty object decodes to a non-nil empty
// set, so callers can tell "declares nothing" from "declares no entries".
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dependencies: expected object, got %v", tok)
	}

	out := Dependencies{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("dependencies: expected string key, got %v", keyTok)
		}
		var version string
		if err := dec.Decode(&version); err != nil {
			return fmt.Errorf("dependencies: value for %q: %w", name, err)
		}
		out = out.With(name, version)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

// With returns a copy with name set to version. An existing entry keeps its
// position; a new one is appended.
func (d Dependencies) With(name, version string) Dependencies {
	out := slices.Clone(d)
	for i := range out {
		if out[i].Name == name {
			out[i].Version = version
			return out
		}
	}
	return append(out, Dependency{Name: name, Version: version})
}

// Without returns a copy excluding the given names.
func (d Dependencies) Without(names ...string) Dependencies {
	var out Dependencies
	for _, dep := range d {
		if !slices.Contains(names, dep.Name) {
			out = append(out, dep)
		}
	}
	return out
}

// Names returns the dependency names in order.
func (d Dependencies) Names() []string {
	names := make([]string, len(d))
	for i, dep := range d {
		names[i] = dep.Name
	}
	return names
}

// Get returns the version declared for name.
func (d Dependencies) Get(name string) (string, bool) {
	for _, dep := range d {
		if dep.Name == name {
			return dep.Version, true
		}
	}
	return "", false
}
