// Package runner executes a plan.Plan on the local machine without an
// external build tool.
//
// Targets run with Ant semantics: a target's depends list is resolved
// depth-first, left to right, and each target runs at most once per run.
// Compile targets therefore run strictly one after another in the resolved
// order. Only a Parallel action runs work concurrently, on a fixed-width
// worker pool whose tasks never cancel each other.
package runner
