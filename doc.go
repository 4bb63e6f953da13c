// Package strata builds a unified, cross-referenced model of a
// heterogeneous mobile-style source tree: structural components, their
// relationships, and inferred screen-navigation flows.
//
// # Pipeline
//
// Strata operates in phases:
//
//  1. Discover: walk the tree (skipping hidden/build/vendor directories and
//     excluded globs), classify files by extension, and parse side-channel
//     metadata — the manifest's activity/launcher declarations and the
//     build descriptor's dependency list.
//
//  2. Extract: for each source file, produce component stubs with
//     unresolved reference names. Java goes through a tree-sitter AST;
//     Kotlin and Dart use lexical pattern scanning, which is deliberately
//     best-effort. Extraction runs on a worker pool, one task per file.
//
//  3. Detect: independently of extraction, scan each file for navigation
//     idioms (intent construction, setClass-style assignment, navigation
//     calls with constructed transition objects, fragment container swaps,
//     declarative navigate calls) and emit flow edges.
//
//  4. Resolve: a synchronization barrier. Two indices over all stubs bind
//     every reference to a canonical component or an external placeholder
//     in near-linear time. Duplicate ids keep the first occurrence.
//
//  5. Classify: ordered rule tables assign each component a layer
//     (UI / Business Logic / Data / Domain / Unknown) and a category.
//     Both are total and idempotent.
//
//  6. Synthesize: screen-like components plus navigation edges become
//     user-flow components typed by graph position, grouped into business
//     processes with heuristic criticality and external integrations.
//
// # Usage
//
// Create an Engine, analyze a tree, and read the result:
//
//	e, err := strata.New(strata.WithExcludes("**/generated/**"))
//	if err != nil { ... }
//
//	res, err := e.Analyze(context.Background(), "path/to/project")
//	if err != nil { ... }
//
//	for _, c := range res.Components {
//		fmt.Println(c.ID, c.Layer, c.Category)
//	}
//
// No failure in a single input file is fatal: malformed sources degrade to
// partial stubs and a Diagnostic, unresolved names degrade to placeholders,
// and missing manifest/build files degrade to empty metadata.
package strata
