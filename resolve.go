package preqs

import (
	"fmt"
	"sync"

	"github.com/jward/preqs/internal/extract"
	"github.com/jward/preqs/internal/pymeta"
)

// VersionUnknown marks a ResolvedRequirement whose import name matched no
// installed distribution. Such entries are kept for diagnostics only and are
// never written to the manifest.
const VersionUnknown = "unknown"

// ResolvedRequirement is an import name resolved against the installed
// metadata: the canonical distribution name and its version. The
// distribution name may differ from the import name (bs4 → beautifulsoup4).
type ResolvedRequirement struct {
	Name    string
	Version string
}

// resolver maps import names to installed distributions through a reverse
// index from top-level module names, built lazily and exactly once per run.
type resolver struct {
	index pymeta.Index

	once     sync.Once
	byModule map[string]ResolvedRequirement
	err      error
}

func newResolver(index pymeta.Index) *resolver {
	return &resolver{index: index}
}

// resolveAll maps each import name to a ResolvedRequirement. A reverse-index
// hit yields the distribution's (name, version); a miss yields the import
// name itself with VersionUnknown. Several import names exposed by the same
// distribution all map to that one distribution.
func (r *resolver) resolveAll(importNames []string) (map[string]ResolvedRequirement, error) {
	if err := r.build(); err != nil {
		return nil, err
	}
	out := make(map[string]ResolvedRequirement, len(importNames))
	for _, name := range importNames {
		if req, ok := r.byModule[extract.TopLevel(name)]; ok {
			out[name] = req
			continue
		}
		out[name] = ResolvedRequirement{Name: name, Version: VersionUnknown}
	}
	return out, nil
}

// build enumerates the installed distributions and inverts their declared
// top-level modules. When two distributions declare the same module, the
// first in enumeration order wins.
func (r *resolver) build() error {
	r.once.Do(func() {
		dists, err := r.index.Distributions()
		if err != nil {
			r.err = fmt.Errorf("enumerate installed distributions: %w", err)
			return
		}
		r.byModule = make(map[string]ResolvedRequirement)
		for _, dist := range dists {
			for _, module := range dist.Modules {
				key := extract.TopLevel(module)
				if key == "" {
					continue
				}
				if _, taken := r.byModule[key]; taken {
					continue
				}
				r.byModule[key] = ResolvedRequirement{Name: dist.Name, Version: dist.Version}
			}
		}
	})
	return r.err
}
