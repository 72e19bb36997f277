package preqs

import (
	"github.com/jward/preqs/internal/check"
	"github.com/jward/preqs/internal/extract"
	"github.com/jward/preqs/internal/pymeta"
	"github.com/jward/preqs/internal/requirements"
	"github.com/jward/preqs/internal/scan"
)

// Public aliases for internal types used in the Engine API. These are Go
// type aliases (=) — identical to the internal types at compile time.

type Set = requirements.Set
type ManifestEntry = requirements.ManifestEntry
type CheckResult = check.Result
type CheckStatus = check.Status
type Distribution = pymeta.Distribution
type Index = pymeta.Index
type Extractor = extract.Extractor
type ExtractResult = extract.Result
type PathError = scan.PathError

// Check statuses, re-exported for callers of Engine.Check.
const (
	StatusNotInstalled = check.StatusNotInstalled
	StatusOlder        = check.StatusOlder
	StatusNewer        = check.StatusNewer
	StatusSame         = check.StatusSame
	StatusUnpinned     = check.StatusUnpinned
)

// ErrManifestExists is returned by WriteManifest when the target file exists
// and replace was not requested.
var ErrManifestExists = requirements.ErrManifestExists

// WriteManifest writes serialized manifest content to path, refusing to
// overwrite an existing file unless replace is set.
func WriteManifest(path, content string, replace bool) error {
	return requirements.WriteFile(path, content, replace)
}

// DefaultIgnoreDirs lists the directory names pruned from every scan.
var DefaultIgnoreDirs = scan.DefaultIgnoreDirs
