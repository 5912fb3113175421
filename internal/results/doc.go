// Package results owns the aggregate result artifact of a simulation
// fan-out: a JUnit style testsuites document with run, error and failure
// counters.
//
// The Collector folds the per-suite output and error captures into that
// document, Evaluate is the fail-closed exit gate over it and Summary prints
// a short human readable report.
package results
