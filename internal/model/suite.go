// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines test suites and test labs.
//
// A suite is declared once in the manifest but may run several times against
// the same compiled library. Each run receives its index as a simulation
// generic, which lets one stimulus file cover a family of scenarios.
package model

import "fmt"

// SuiteDecl is a test suite as written in the manifest.
type SuiteDecl struct {
	Name       string
	File       string
	EntryFile  string
	EntryLabel string
	// Indexes is the repeat count. Zero means a single, unindexed run.
	Indexes int
}

// TestSuiteSpec is one fanned-out simulation run.
type TestSuiteSpec struct {
	Name       string
	File       string
	EntryFile  string
	EntryLabel string
	// RunIndex is set only for suites expanded from a repeat count.
	RunIndex *int
}

// Expand returns the runs a declaration stands for: the suite itself, or
// Indexes copies named "<name>_<i>".
func (d SuiteDecl) Expand() []TestSuiteSpec {
	if d.Indexes <= 0 {
		return []TestSuiteSpec{{
			Name:       d.Name,
			File:       d.File,
			EntryFile:  d.EntryFile,
			EntryLabel: d.EntryLabel,
		}}
	}

	specs := make([]TestSuiteSpec, 0, d.Indexes)
	for i := 0; i < d.Indexes; i++ {
		idx := i
		specs = append(specs, TestSuiteSpec{
			Name:       fmt.Sprintf("%s_%d", d.Name, i),
			File:       d.File,
			EntryFile:  d.EntryFile,
			EntryLabel: d.EntryLabel,
			RunIndex:   &idx,
		})
	}
	return specs
}

// ExpandSuites expands every declaration and rejects duplicate run names.
func ExpandSuites(decls []SuiteDecl) ([]TestSuiteSpec, error) {
	var specs []TestSuiteSpec
	seen := make(map[string]string)
	for _, d := range decls {
		for _, s := range d.Expand() {
			if owner, dup := seen[s.Name]; dup {
				return nil, configErrorf(fmt.Sprintf("test_suite %q", d.Name),
					"run name %q collides with a run of suite %q", s.Name, owner)
			}
			seen[s.Name] = d.Name
			specs = append(specs, s)
		}
	}
	return specs, nil
}

// TestLabSpec is a single interactive or batch simulation run.
type TestLabSpec struct {
	Name       string
	File       string
	EntryFile  string
	EntryLabel string
}
