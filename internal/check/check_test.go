package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/preqs/internal/pymeta"
	"github.com/jward/preqs/internal/requirements"
)

// fakeIndex is a deterministic in-memory Index.
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

func installed(pairs ...string) *fakeIndex {
	ix := &fakeIndex{}
	for i := 0; i+1 < len(pairs); i += 2 {
		ix.dists = append(ix.dists, pymeta.Distribution{Name: pairs[i], Version: pairs[i+1]})
	}
	return ix
}

func runOn(t *testing.T, manifest string, ix pymeta.Index) []Result {
	t.Helper()
	entries := requirements.ParseManifest(manifest, nil)
	return Run(entries, ix)
}

func TestRun_Statuses(t *testing.T) {
	t.Parallel()
	ix := installed(
		"requests", "2.31.0",
		"numpy", "1.20.0",
		"flask", "3.1.0",
		"scipy", "1.12.0",
	)
	results := runOn(t, `requests==2.31.0
numpy==1.26.4
flask==3.0.0
scipy
pandas==2.2.0
`, ix)

	require.Len(t, results, 5)
	assert.Equal(t, Result{Name: "requests", Required: "==2.31.0", Installed: "2.31.0", Status: StatusSame}, results[0])
	assert.Equal(t, Result{Name: "numpy", Required: "==1.26.4", Installed: "1.20.0", Status: StatusOlder}, results[1])
	assert.Equal(t, Result{Name: "flask", Required: "==3.0.0", Installed: "3.1.0", Status: StatusNewer}, results[2])
	assert.Equal(t, Result{Name: "scipy", Required: "", Installed: "1.12.0", Status: StatusUnpinned}, results[3])
	assert.Equal(t, Result{Name: "pandas", Required: "==2.2.0", Installed: "n/a", Status: StatusNotInstalled}, results[4])
}

func TestRun_LookupByDistributionNameNormalized(t *testing.T) {
	t.Parallel()
	ix := installed("Beautiful-Soup4", "4.12.3")
	results := runOn(t, "beautiful_soup4==4.12.3\n", ix)
	require.Len(t, results, 1)
	assert.Equal(t, StatusSame, results[0].Status)
}

func TestRun_RangeOperatorsCompareVersions(t *testing.T) {
	t.Parallel()
	ix := installed("django", "4.2.0")
	results := runOn(t, "django>=4.0\ndjango<=5.0\n", ix)
	require.Len(t, results, 2)
	assert.Equal(t, ">=4.0", results[0].Required)
	assert.Equal(t, StatusNewer, results[0].Status)
	assert.Equal(t, StatusOlder, results[1].Status)
}

func TestCompareVersions_NumericNotLexical(t *testing.T) {
	t.Parallel()
	// "2.10" must rank above "2.9" — lexical comparison would invert this.
	assert.Equal(t, 1, CompareVersions("2.10", "2.9"))
	assert.Equal(t, -1, CompareVersions("2.9", "2.10"))
	assert.Equal(t, 0, CompareVersions("2.1", "2.1.0"))
}

func TestCompareVersions_NonSemverFallback(t *testing.T) {
	t.Parallel()
	// .post and four-segment versions are not semver; the dot-segment
	// fallback still orders them sensibly.
	assert.Equal(t, 1, CompareVersions("1.2.3.post1", "1.2.3"))
	assert.Equal(t, -1, CompareVersions("4.0.0.0", "4.0.0.1"))
	assert.Equal(t, 0, CompareVersions("1.0.0.post1", "1.0.0.post1"))
}

func TestCompareVersions_Semver(t *testing.T) {
	t.Parallel()
	assert.Equal(t, -1, CompareVersions("1.9.9", "2.0.0"))
	assert.Equal(t, 0, CompareVersions("3.0.0", "3.0.0"))
	assert.Equal(t, 1, CompareVersions("3.0.1", "3.0.0"))
}
