// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strings"
)

// Project holds the project-wide names the plan is built around.
type Project struct {
	Name            string
	TopEntity       string
	TopEntityFile   string
	TBTopEntity     string
	TBTopEntityFile string
	// StimulusPath is the directory, relative to the base directory, that
	// holds the stimulus files. It defaults to DefaultStimulusPath.
	StimulusPath string
}

// DefaultStimulusPath is used when a manifest does not name one.
const DefaultStimulusPath = "tb/simstm/"

// Manifest is the complete, format-agnostic project description.
type Manifest struct {
	Project Project
	Sources []SourceRecord
	Suites  []SuiteDecl
	Labs    []TestLabSpec
}

// Validate checks that every field the generator consumes is present.
func (m *Manifest) Validate() error {
	if m == nil {
		return &ConfigurationError{Reason: "manifest is empty"}
	}
	if m.Project.Name == "" {
		return configErrorf("project", "name is required")
	}
	if m.Project.TBTopEntity == "" {
		return configErrorf(fmt.Sprintf("project %q", m.Project.Name), "tb_top_entity is required")
	}

	for i, s := range m.Sources {
		subject := fmt.Sprintf("source #%d", i)
		if s.Path != "" {
			subject = fmt.Sprintf("source %q", s.Path)
		}
		switch {
		case s.Path == "":
			return configErrorf(subject, "path is required")
		case s.Order == "" && s.Compilable():
			return configErrorf(subject, "order is required")
		case s.Kind == KindRevisionTagged && s.Revision == "":
			return configErrorf(subject, "revision-tagged source needs a revision")
		}
	}

	labs := make(map[string]struct{}, len(m.Labs))
	for _, l := range m.Labs {
		if err := validateRun("test_lab", l.Name, l.EntryFile, l.EntryLabel); err != nil {
			return err
		}
		if _, dup := labs[l.Name]; dup {
			return configErrorf(fmt.Sprintf("test_lab %q", l.Name), "declared more than once")
		}
		labs[l.Name] = struct{}{}
	}
	for _, l := range m.Labs {
		if err := labNameFree(l.Name, labs); err != nil {
			return err
		}
	}

	for _, d := range m.Suites {
		if err := validateRun("test_suite", d.Name, d.EntryFile, d.EntryLabel); err != nil {
			return err
		}
		if d.Indexes < 0 {
			return configErrorf(fmt.Sprintf("test_suite %q", d.Name), "indexes must not be negative, got %d", d.Indexes)
		}
	}
	_, err := ExpandSuites(m.Suites)
	return err
}

// reservedLabNames would turn a lab's targets into the plan's own
// simulate-gui and simulate-suites targets.
var reservedLabNames = []string{"gui", "suites"}

// labNameFree rejects lab names whose simulate-<name> target collides with
// another target of the plan.
func labNameFree(name string, labs map[string]struct{}) error {
	subject := fmt.Sprintf("test_lab %q", name)
	for _, r := range reservedLabNames {
		if name == r {
			return configErrorf(subject, "name is reserved for the simulate-%s target", r)
		}
	}
	if other, ok := strings.CutPrefix(name, "gui-"); ok {
		if _, clash := labs[other]; clash {
			return configErrorf(subject, "target simulate-%s is already the interactive target of test_lab %q", name, other)
		}
	}
	return nil
}

func validateRun(kind, name, entryFile, entryLabel string) error {
	if name == "" {
		return configErrorf(kind, "name is required")
	}
	subject := fmt.Sprintf("%s %q", kind, name)
	if entryFile == "" {
		return configErrorf(subject, "entry_file is required")
	}
	if entryLabel == "" {
		return configErrorf(subject, "entry_label is required")
	}
	return nil
}
