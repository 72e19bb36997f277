package preqs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/preqs/internal/check"
	"github.com/jward/preqs/internal/pymeta"
	"github.com/jward/preqs/internal/scan"
)

// fakeIndex is a fixed in-memory installed-metadata index.
type fakeIndex struct {
	dists []pymeta.Distribution
}

func (f *fakeIndex) Distributions() ([]pymeta.Distribution, error) {
	return f.dists, nil
}

func (f *fakeIndex) Lookup(name string) (pymeta.Distribution, bool) {
	key := pymeta.Normalize(name)
	for _, d := range f.dists {
		if pymeta.Normalize(d.Name) == key {
			return d, true
		}
	}
	return pymeta.Distribution{}, false
}

// testIndex covers the common cases: a plain package, one whose import name
// differs from its distribution name, and one exposing two top-level modules.
func testIndex() *fakeIndex {
	return &fakeIndex{dists: []pymeta.Distribution{
		{Name: "requests", Version: "2.31.0", Modules: []string{"requests"}},
		{Name: "beautifulsoup4", Version: "4.12.3", Modules: []string{"bs4"}},
		{Name: "numpy", Version: "1.26.4", Modules: []string{"numpy"}},
		{Name: "python-dateutil", Version: "2.9.0", Modules: []string{"dateutil", "dateutil_tz"}},
	}}
}

// writeProject creates a project tree from relative path → content.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestEngine(opts ...Option) *Engine {
	base := []Option{WithIndex(testIndex()), WithPythonVersion(3, 12)}
	return New(append(base, opts...)...)
}

func TestDiscover_EndToEnd(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.py": `
import os
import requests
from bs4 import BeautifulSoup
import helpers
import leftpad
`,
		"helpers.py": "import json\n",
	})

	d, err := newTestEngine().Discover(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, d.FilesScanned)
	// os and json are stdlib, helpers is local; leftpad is not installed.
	assert.Equal(t, []string{"bs4", "leftpad", "requests"}, d.Imports)
	assert.Equal(t, []string{"leftpad"}, d.Unknown)
	assert.Equal(t, "beautifulsoup4==4.12.3\nrequests==2.31.0\n", d.Requirements.Serialize())
}

func TestDiscover_MixedCaseStdlibImportExcluded(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.py": "import cProfile\nimport requests\n",
	})

	d, err := newTestEngine().Discover(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"requests"}, d.Imports)
	assert.Empty(t, d.Unknown)
}

func TestDiscover_IgnoredDirDropsItsImports(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.py":         "import requests\n",
		"build/helper.py": "import numpy\n",
	})

	eng := newTestEngine(WithIgnoreDirs("build"))
	d, err := eng.Discover(context.Background(), root)
	require.NoError(t, err)

	assert.NotContains(t, d.Requirements.Serialize(), "numpy")
	assert.Equal(t, "requests==2.31.0\n", d.Requirements.Serialize())
}

func TestDiscover_ModulesCollapseToOneDistribution(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"a.py": "import dateutil\n",
		"b.py": "import dateutil_tz\n",
	})

	d, err := newTestEngine().Discover(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, 1, d.Requirements.Len())
	assert.Equal(t, "python-dateutil==2.9.0\n", d.Requirements.Serialize())
}

func TestDiscover_LocalPackageExcluded(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"mypkg/__init__.py": "",
		"mypkg/core.py":     "import requests\n",
		"main.py":           "import mypkg\nfrom mypkg.core import run\n",
	})

	d, err := newTestEngine().Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"requests"}, d.Imports)
}

func TestDiscover_MalformedFileDoesNotAbort(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"good.py": "import requests\n",
		"bad.py":  "def broken(:\n    import nonsense missing\n",
	})

	d, err := newTestEngine().Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Contains(t, d.Imports, "requests")
}

func TestDiscover_Idempotent(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.py": "import requests\nimport numpy\n",
	})

	eng := newTestEngine()
	first, err := eng.Discover(context.Background(), root)
	require.NoError(t, err)
	second, err := eng.Discover(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, first.Requirements.Serialize(), second.Requirements.Serialize())
}

func TestDiscover_NoSourceFiles(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"README.md": "docs only\n"})

	_, err := newTestEngine().Discover(context.Background(), root)
	assert.ErrorIs(t, err, ErrNoSourceFiles)
}

func TestDiscover_MissingRoot(t *testing.T) {
	t.Parallel()
	_, err := newTestEngine().Discover(context.Background(), filepath.Join(t.TempDir(), "nope"))

	var perr *scan.PathError
	assert.ErrorAs(t, err, &perr)
}

func TestRoundTrip_GenerateThenCheckAllSame(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.py": "import requests\nimport numpy\nfrom bs4 import BeautifulSoup\n",
	})

	eng := newTestEngine()
	d, err := eng.Discover(context.Background(), root)
	require.NoError(t, err)

	manifest := filepath.Join(root, "requirements.txt")
	require.NoError(t, WriteManifest(manifest, d.Requirements.Serialize(), false))

	results, err := eng.Check(context.Background(), manifest)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.Equal(t, check.StatusSame, res.Status, "entry %s", res.Name)
	}
}

func TestCheck_MissingManifest(t *testing.T) {
	t.Parallel()
	_, err := newTestEngine().Check(context.Background(), filepath.Join(t.TempDir(), "requirements.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
