// Package plan turns a project manifest into an abstract build plan: an
// ordered set of named targets with dependency references, each carrying a
// list of actions.
//
// The plan has two phases. The compile phase is one target per source file in
// the global order, each skipped when its freshness check holds and followed
// by a marker refresh. The simulation phase runs every expanded test suite in
// one bounded parallel group, folds the per-suite artifacts into an aggregate
// result, cleans up behind it and finally gates the build on that aggregate.
//
// A Plan is serialized by the emit package or executed by the runner package;
// it never touches the filesystem itself.
package plan
