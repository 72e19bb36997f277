// Package scan discovers Python source files under a project root.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// sourceExts are the file extensions treated as Python source.
var sourceExts = map[string]bool{
	".py":  true,
	".pyw": true,
}

// DefaultIgnoreDirs are directory names pruned from every walk. Matching is
// exact and case-sensitive on the directory's base name.
var DefaultIgnoreDirs = []string{
	".git",
	".ipynb_checkpoints",
	".svn",
	".tox",
	"__pycache__",
	"test",
	"tests",
}

// PathError reports an unusable root path. It is fatal: the caller cannot
// proceed without a readable project directory.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %s: %s", e.Path, e.Reason)
}

// Scan walks root and returns the paths of all Python source files, in walk
// order. Any directory whose name appears in ignore is pruned along with its
// entire subtree. The walk is read-only.
//
// Returns *PathError when root does not exist or is not a directory.
func Scan(root string, ignore map[string]bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PathError{Path: root, Reason: "does not exist"}
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, &PathError{Path: root, Reason: "not a directory"}
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// The root itself is never pruned, even if its name is ignored.
			if path != root && ignore[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if sourceExts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

// IgnoreSet builds the ignore map from the defaults plus any extra names.
func IgnoreSet(extra ...string) map[string]bool {
	ignore := make(map[string]bool, len(DefaultIgnoreDirs)+len(extra))
	for _, name := range DefaultIgnoreDirs {
		ignore[name] = true
	}
	for _, name := range extra {
		ignore[name] = true
	}
	return ignore
}
