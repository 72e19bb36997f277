// Package check validates a requirements manifest against the installed
// distributions. It is a read-only diagnostic: no file is ever modified.
package check

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/jward/preqs/internal/pymeta"
	"github.com/jward/preqs/internal/requirements"
)

// Status classifies one manifest entry against the installed state.
type Status string

const (
	StatusNotInstalled Status = "Not installed"
	StatusOlder        Status = "Older"
	StatusNewer        Status = "Newer"
	StatusSame         Status = "Same"
	StatusUnpinned     Status = "Unpinned"
)

// Result is the outcome for one manifest entry. Installed is "n/a" when the
// distribution is not installed.
type Result struct {
	Name      string
	Required  string // original constraint text, e.g. "==2.31.0"; "" if unpinned
	Installed string
	Status    Status
}

// Run classifies each manifest entry, preserving manifest order. Entries are
// looked up by distribution name (normalized), never by import name.
func Run(entries []requirements.ManifestEntry, index pymeta.Index) []Result {
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		dist, installed := index.Lookup(e.Name)
		res := Result{Name: e.Name, Required: e.Op + e.Version}

		switch {
		case !installed:
			res.Installed = "n/a"
			res.Status = StatusNotInstalled
		case e.Version == "":
			res.Installed = dist.Version
			res.Status = StatusUnpinned
		default:
			res.Installed = dist.Version
			switch cmp := CompareVersions(dist.Version, e.Version); {
			case cmp < 0:
				res.Status = StatusOlder
			case cmp > 0:
				res.Status = StatusNewer
			default:
				res.Status = StatusSame
			}
		}
		results = append(results, res)
	}
	return results
}

// CompareVersions orders two version strings semantically, returning -1, 0
// or 1 as a is lower than, equal to, or higher than b. Versions that parse
// as semver are compared as semver; anything else (local versions, post/dev
// releases) falls back to numeric dot-segment comparison, so "2.10" is
// higher than "2.9".
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return compareNumericSegments(a, b)
}

// compareNumericSegments compares dot-separated segments numerically where
// both sides are integers, lexically otherwise. A missing segment counts as
// zero, so "2.1" == "2.1.0".
func compareNumericSegments(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		sa, sb := "0", "0"
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		switch {
		case errA == nil && errB == nil:
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
		default:
			if c := strings.Compare(sa, sb); c != 0 {
				return c
			}
		}
	}
	return 0
}
