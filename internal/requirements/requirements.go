// Package requirements builds, serializes, parses, and writes
// requirements.txt manifests.
package requirements

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// FileName is the conventional manifest name.
const FileName = "requirements.txt"

// ErrManifestExists is returned by WriteFile when the manifest already
// exists and replace was not requested.
var ErrManifestExists = errors.New("requirements file already exists")

// Entry is one pinned requirement.
type Entry struct {
	Name    string
	Version string
}

// Set is a deduplicated collection of pinned requirements. Keys compare
// case-insensitively; the first-added spelling of a name is preserved.
type Set struct {
	entries map[string]Entry // keyed by lower-cased name
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{entries: make(map[string]Entry)}
}

// Add records a (name, version) pair. Adding a name that is already present
// (case-insensitively) is a no-op, so several import names collapsing to one
// distribution yield a single line.
func (s *Set) Add(name, version string) {
	key := strings.ToLower(name)
	if _, ok := s.entries[key]; ok {
		return
	}
	s.entries[key] = Entry{Name: name, Version: version}
}

// Len returns the number of requirements in the set.
func (s *Set) Len() int {
	return len(s.entries)
}

// Entries returns the requirements sorted case-insensitively by name.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Serialize renders the manifest content: one "name==version" line per
// requirement, sorted case-insensitively, with a trailing newline. An empty
// set serializes to the empty string.
func (s *Set) Serialize() string {
	entries := s.Entries()
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s==%s\n", e.Name, e.Version)
	}
	return b.String()
}

// WriteFile writes content to path. An existing file is only overwritten
// when replace is set; otherwise ErrManifestExists is returned and the file
// is left untouched.
func WriteFile(path, content string, replace bool) error {
	if !replace {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrManifestExists, path)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
