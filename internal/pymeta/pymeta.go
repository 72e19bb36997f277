// Package pymeta reads installed Python distribution metadata from disk.
//
// Installed distributions are discovered by enumerating *.dist-info and
// *.egg-info entries under a set of site-packages roots, exactly once per
// process run. Only local metadata is consulted; the package never touches
// the network.
package pymeta

import (
	"regexp"
	"strings"
)

// Distribution is one installed package: its canonical metadata name, its
// version, and the top-level module names it exposes for import.
type Distribution struct {
	Name    string
	Version string
	Modules []string
}

// Index is a queryable view of the installed distributions. Enumeration
// happens at most once per Index; results are cached for the rest of the run.
type Index interface {
	// Distributions returns every installed distribution.
	Distributions() ([]Distribution, error)

	// Lookup finds a distribution by name. Matching is PEP 503 normalized,
	// so "Beautiful-Soup", "beautiful_soup" and "beautiful.soup" all match
	// the same distribution.
	Lookup(name string) (Distribution, bool)
}

var normalizeRuns = regexp.MustCompile(`[-_.]+`)

// Normalize canonicalizes a distribution name per PEP 503: lower-cased,
// with runs of "-", "_" and "." collapsed to a single "-".
func Normalize(name string) string {
	return normalizeRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
