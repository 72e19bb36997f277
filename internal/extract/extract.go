// Package extract pulls top-level module references out of Python source.
//
// Extraction is purely static: the source is parsed with tree-sitter and the
// syntax tree is queried for import statements. Imports nested in
// conditionals, try blocks, or function bodies are collected like any other;
// no code is ever executed.
package extract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Extractor produces the set of top-level module references in a blob of
// source text. Implementations must be safe for reuse across files.
type Extractor interface {
	Extract(ctx context.Context, src []byte) (Result, error)
}

// importQuery captures the module path of every absolute import form:
//
//	import X.Y            → dotted_name under import_statement
//	import X.Y as z       → dotted_name under aliased_import
//	from X.Y import ...   → dotted_name in the module_name field
//
// Relative imports (`from . import x`) carry a relative_import node in the
// module_name field and are never captured. Star imports are covered by the
// third pattern since only the module side is captured.
const importQuery = `
(import_statement name: (dotted_name) @module)
(import_statement name: (aliased_import name: (dotted_name) @module))
(import_from_statement module_name: (dotted_name) @module)
`

// TreeSitter extracts imports using the tree-sitter Python grammar.
//
// Malformed source never fails extraction: tree-sitter produces a tree with
// ERROR nodes around unparseable regions and imports in the valid regions
// are still collected. HadErrors on the result reports whether such regions
// were seen so the caller can log them.
type TreeSitter struct {
	lang *sitter.Language

	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error
}

// Result is one file's extraction output.
type Result struct {
	// Modules holds the first dot-segment of each absolute import,
	// lower-cased and deduplicated, in first-seen order.
	Modules []string

	// HadErrors reports that the syntax tree contained ERROR nodes.
	HadErrors bool
}

// NewTreeSitter returns a TreeSitter extractor for the Python grammar.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{lang: python.GetLanguage()}
}

// Extract parses src and returns the referenced top-level module names.
func (ts *TreeSitter) Extract(ctx context.Context, src []byte) (Result, error) {
	ts.queryOnce.Do(func() {
		ts.query, ts.queryErr = sitter.NewQuery([]byte(importQuery), ts.lang)
	})
	if ts.queryErr != nil {
		return Result{}, fmt.Errorf("extract: compile import query: %w", ts.queryErr)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(ts.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return Result{}, fmt.Errorf("extract: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	res := Result{HadErrors: root.HasError()}

	seen := make(map[string]bool)
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(ts.query, root)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			name := TopLevel(capture.Node.Content(src))
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			res.Modules = append(res.Modules, name)
		}
	}
	return res, nil
}

// TopLevel reduces a dotted module path to its lower-cased first segment:
// "requests.sessions" → "requests". Returns "" for empty or relative paths.
func TopLevel(module string) string {
	module = strings.TrimSpace(module)
	if module == "" || strings.HasPrefix(module, ".") {
		return ""
	}
	if i := strings.IndexByte(module, '.'); i >= 0 {
		module = module[:i]
	}
	return strings.ToLower(module)
}
