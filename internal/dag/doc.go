// Package dag holds the dependency graph of a build plan's targets. It is
// used to validate that every dependency reference resolves and that no
// target depends on itself, and to derive the order in which a target and
// its dependencies execute.
package dag
