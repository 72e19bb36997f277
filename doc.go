// Package preqs generates and validates minimal requirements.txt manifests
// for Python projects by static analysis of their import statements.
//
// # Pipeline
//
// Discovery runs in two stages:
//
//  1. Extract: walk the project tree, parse every Python source file with
//     tree-sitter, and collect the set of top-level module names referenced
//     by import statements — excluding relative imports, modules local to
//     the project, and the standard library.
//
//  2. Resolve: map each import name to an installed distribution (name and
//     version) through a reverse index built from the local site-packages
//     metadata. Import names with no installed distribution are reported as
//     unknown and kept out of the written manifest.
//
// Resolution never touches the network: only locally installed package
// metadata is consulted, so results are deterministic and offline-safe.
// Every run re-enumerates the installed distributions; nothing is cached
// across invocations.
//
// # Usage
//
// Create an Engine, discover requirements, and serialize them:
//
//	e := preqs.New()
//	d, err := e.Discover(ctx, "path/to/project")
//	if err != nil { ... }
//	content := d.Requirements.Serialize()
//
// Check mode validates an existing manifest against the installed state:
//
//	results, err := e.Check(ctx, "requirements.txt")
//
// Each result classifies one manifest entry as Same, Older, Newer, Unpinned,
// or Not installed. Check mode is read-only.
package preqs
