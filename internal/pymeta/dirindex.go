package pymeta

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DirIndex is an Index backed by site-packages directories on disk.
type DirIndex struct {
	roots []string

	once   sync.Once
	dists  []Distribution
	byName map[string]Distribution
}

// NewDirIndex returns an Index over the given site-packages roots. Roots
// that do not exist and entries with unreadable or malformed metadata are
// silently skipped; metadata is read lazily on first query and cached for
// the lifetime of the index.
func NewDirIndex(roots ...string) *DirIndex {
	return &DirIndex{roots: roots}
}

// Distributions implements Index.
func (ix *DirIndex) Distributions() ([]Distribution, error) {
	ix.enumerate()
	return ix.dists, nil
}

// Lookup implements Index.
func (ix *DirIndex) Lookup(name string) (Distribution, bool) {
	ix.enumerate()
	dist, ok := ix.byName[Normalize(name)]
	return dist, ok
}

func (ix *DirIndex) enumerate() {
	ix.once.Do(func() {
		ix.byName = make(map[string]Distribution)
		for _, root := range ix.roots {
			entries, err := os.ReadDir(root)
			if err != nil {
				continue // missing or unreadable root
			}
			for _, entry := range entries {
				dist, ok, err := readEntry(root, entry.Name())
				if err != nil || !ok {
					// A broken .dist-info belongs to one package; the rest of
					// the environment is still resolvable.
					continue
				}
				key := Normalize(dist.Name)
				if _, dup := ix.byName[key]; dup {
					continue // first root on the path wins, like the interpreter
				}
				ix.byName[key] = dist
				ix.dists = append(ix.dists, dist)
			}
		}
		sort.Slice(ix.dists, func(i, j int) bool {
			return Normalize(ix.dists[i].Name) < Normalize(ix.dists[j].Name)
		})
	})
}

// readEntry parses one site-packages entry. Returns ok=false for entries
// that are not distribution metadata.
func readEntry(root, name string) (Distribution, bool, error) {
	path := filepath.Join(root, name)
	switch {
	case strings.HasSuffix(name, ".dist-info"):
		return readDistInfo(path)
	case strings.HasSuffix(name, ".egg-info"):
		return readEggInfo(path)
	default:
		return Distribution{}, false, nil
	}
}

// readDistInfo reads a PEP 376 .dist-info directory: METADATA for the name
// and version, top_level.txt (or RECORD as a fallback) for modules.
func readDistInfo(dir string) (Distribution, bool, error) {
	name, version, err := readMetadataFile(filepath.Join(dir, "METADATA"))
	if err != nil {
		if os.IsNotExist(err) {
			return Distribution{}, false, nil // stray directory, not a dist
		}
		return Distribution{}, false, err
	}

	modules := readTopLevel(filepath.Join(dir, "top_level.txt"))
	if len(modules) == 0 {
		modules = modulesFromRecord(filepath.Join(dir, "RECORD"))
	}
	if len(modules) == 0 {
		modules = []string{fallbackModule(name)}
	}
	return Distribution{Name: name, Version: version, Modules: modules}, true, nil
}

// readEggInfo reads a legacy .egg-info entry, which is either a directory
// holding PKG-INFO or a bare PKG-INFO file.
func readEggInfo(path string) (Distribution, bool, error) {
	metaPath := path
	var modules []string

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		metaPath = filepath.Join(path, "PKG-INFO")
		modules = readTopLevel(filepath.Join(path, "top_level.txt"))
	}

	name, version, err := readMetadataFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Distribution{}, false, nil
		}
		return Distribution{}, false, err
	}
	if len(modules) == 0 {
		modules = []string{fallbackModule(name)}
	}
	return Distribution{Name: name, Version: version, Modules: modules}, true, nil
}

// readMetadataFile extracts the Name and Version headers from an RFC 822
// style METADATA / PKG-INFO file. Reading stops at the first blank line,
// where the headers end and the description body begins.
func readMetadataFile(path string) (name, version string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "Name:"); ok {
			name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Version:"); ok {
			version = strings.TrimSpace(v)
		}
		if name != "" && version != "" {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return "", "", err
	}
	if name == "" {
		return "", "", fmt.Errorf("no Name header in %s", path)
	}
	return name, version, nil
}

// readTopLevel parses top_level.txt: one module name per line.
func readTopLevel(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var modules []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			modules = append(modules, line)
		}
	}
	return modules
}

// modulesFromRecord derives top-level module names from a RECORD file when
// top_level.txt is absent. Each RECORD line is "path,hash,size"; the first
// path segment identifies the installed module or package.
func modulesFromRecord(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var modules []string
	for _, line := range strings.Split(string(data), "\n") {
		entry, _, _ := strings.Cut(line, ",")
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		first, _, nested := strings.Cut(entry, "/")
		switch {
		case strings.HasPrefix(first, ".."): // scripts installed outside site-packages
			continue
		case strings.HasSuffix(first, ".dist-info"), first == "__pycache__":
			continue
		case !nested:
			// A top-level file: only .py modules count as importable.
			if !strings.HasSuffix(first, ".py") {
				continue
			}
			first = strings.TrimSuffix(first, ".py")
		}
		if first == "" || seen[first] {
			continue
		}
		seen[first] = true
		modules = append(modules, first)
	}
	return modules
}

// fallbackModule guesses the import name of a distribution that declares no
// top-level modules: the normalized name with dashes as underscores.
func fallbackModule(distName string) string {
	return strings.ReplaceAll(Normalize(distName), "-", "_")
}
