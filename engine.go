package preqs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jward/preqs/internal/check"
	"github.com/jward/preqs/internal/extract"
	"github.com/jward/preqs/internal/pymeta"
	"github.com/jward/preqs/internal/pystdlib"
	"github.com/jward/preqs/internal/requirements"
	"github.com/jward/preqs/internal/scan"
)

// ErrNoSourceFiles is returned by Discover when the scanned tree contains no
// Python source files at all.
var ErrNoSourceFiles = errors.New("no Python source files found")

// Engine orchestrates the preqs pipeline: source scan, import extraction,
// distribution resolution, and manifest checking. The run is strictly
// sequential; an Engine holds no state across operations except the
// installed-metadata index, which is enumerated once per Engine.
type Engine struct {
	ignore    map[string]bool
	extractor extract.Extractor
	index     pymeta.Index
	logger    *log.Logger

	pyMajor, pyMinor int
	stdlib           map[string]bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithIgnoreDirs adds directory names to prune during the scan, on top of
// the defaults (.git, tests, __pycache__, ...).
func WithIgnoreDirs(names ...string) Option {
	return func(e *Engine) {
		for _, name := range names {
			e.ignore[name] = true
		}
	}
}

// WithIndex injects the installed-metadata index. The default enumerates the
// active environment's site-packages directories; tests inject a fixed index.
func WithIndex(ix pymeta.Index) Option {
	return func(e *Engine) {
		e.index = ix
	}
}

// WithExtractor swaps the import extractor. The default parses Python with
// tree-sitter.
func WithExtractor(x extract.Extractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// WithLogger sets the Engine's logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithPythonVersion pins the Python version whose standard-library module
// set is excluded from discovery. Without it, the version of the active
// interpreter is detected, falling back to the newest known table.
func WithPythonVersion(major, minor int) Option {
	return func(e *Engine) {
		e.pyMajor, e.pyMinor = major, minor
	}
}

// New creates an Engine with the default scanner, extractor, and ignore set.
func New(opts ...Option) *Engine {
	e := &Engine{
		ignore:    scan.IgnoreSet(),
		extractor: extract.NewTreeSitter(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Discovery is the outcome of one discovery run.
type Discovery struct {
	// Requirements holds the resolved (name, version) pairs — the manifest
	// content.
	Requirements *requirements.Set

	// Unknown lists import names with no installed distribution, sorted.
	// They are surfaced for diagnostics and never written to the manifest.
	Unknown []string

	// Imports lists every distinct third-party import name found, sorted.
	Imports []string

	// FilesScanned counts the source files visited.
	FilesScanned int
}

// Discover scans root for Python sources, extracts their third-party import
// names, and resolves each to an installed distribution.
//
// Per-file failures (unreadable files, malformed syntax) are logged and
// skipped; they never abort the run. Returns *scan.PathError when root is
// missing or not a directory, and ErrNoSourceFiles when the tree holds no
// Python sources.
func (e *Engine) Discover(ctx context.Context, root string) (*Discovery, error) {
	paths, err := scan.Scan(root, e.ignore)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoSourceFiles, root)
	}
	e.logger.Debug("scanned project", "root", root, "files", len(paths))

	stdlib := e.stdlibNames()
	locals := localNames(root, paths)

	seen := make(map[string]bool)
	var imports []string
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			e.logger.Warn("skipping unreadable file", "path", path, "err", err)
			continue
		}
		res, err := e.extractor.Extract(ctx, src)
		if err != nil {
			e.logger.Debug("skipping unparseable file", "path", path, "err", err)
			continue
		}
		if res.HadErrors {
			e.logger.Debug("source has syntax errors, collected what parsed", "path", path)
		}
		for _, name := range res.Modules {
			if seen[name] || stdlib[name] || locals[name] {
				continue
			}
			seen[name] = true
			imports = append(imports, name)
		}
	}
	sort.Strings(imports)
	e.logger.Debug("extracted imports", "count", len(imports), "imports", imports)

	resolved, err := newResolver(e.metadataIndex()).resolveAll(imports)
	if err != nil {
		return nil, err
	}

	d := &Discovery{
		Requirements: requirements.NewSet(),
		Imports:      imports,
		FilesScanned: len(paths),
	}
	for _, imp := range imports {
		req := resolved[imp]
		if req.Version == VersionUnknown {
			d.Unknown = append(d.Unknown, req.Name)
			continue
		}
		d.Requirements.Add(req.Name, req.Version)
	}
	sort.Strings(d.Unknown)
	return d, nil
}

// Check validates the manifest at path against the installed distributions.
// Unparseable lines are warned about and skipped; results preserve manifest
// order. No file is modified.
func (e *Engine) Check(ctx context.Context, path string) ([]check.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	entries := requirements.ParseManifest(string(data), func(line int, raw string) {
		e.logger.Warn("skipping unrecognized requirement line", "line", line, "text", raw)
	})
	return check.Run(entries, e.metadataIndex()), nil
}

// metadataIndex returns the injected index, creating the default
// site-packages index on first use.
func (e *Engine) metadataIndex() pymeta.Index {
	if e.index == nil {
		roots, err := pymeta.DefaultRoots()
		if err != nil {
			e.logger.Warn("could not locate site-packages", "err", err)
		}
		e.logger.Debug("using site-packages roots", "roots", roots)
		e.index = pymeta.NewDirIndex(roots...)
	}
	return e.index
}

// stdlibNames returns the standard-library exclusion set, detecting the
// interpreter version on first use unless one was pinned.
func (e *Engine) stdlibNames() map[string]bool {
	if e.stdlib != nil {
		return e.stdlib
	}
	if e.pyMajor == 0 {
		e.pyMajor, e.pyMinor = detectPythonVersion()
		e.logger.Debug("detected python version", "major", e.pyMajor, "minor", e.pyMinor)
	}
	e.stdlib = pystdlib.Names(e.pyMajor, e.pyMinor)
	return e.stdlib
}

// detectPythonVersion asks the active interpreter for its version, falling
// back to the newest known stdlib table when no interpreter is available.
func detectPythonVersion() (major, minor int) {
	for _, python := range []string{"python3", "python"} {
		out, err := exec.Command(python, "-c",
			"import sys; print(sys.version_info[0], sys.version_info[1])").Output()
		if err != nil {
			continue
		}
		if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%d %d", &major, &minor); err == nil {
			return major, minor
		}
	}
	return 3, pystdlib.LatestMinor
}

// localNames collects module names local to the project: every directory on
// the path to a source file plus the file's stem, and the project directory
// itself. Imports of these are intra-project, not third-party requirements.
func localNames(root string, paths []string) map[string]bool {
	locals := map[string]bool{
		strings.ToLower(filepath.Base(root)): true,
	}
	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		for i, part := range parts {
			if i == len(parts)-1 {
				part = strings.TrimSuffix(part, filepath.Ext(part))
			}
			locals[strings.ToLower(part)] = true
		}
	}
	return locals
}
