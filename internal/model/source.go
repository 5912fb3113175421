// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines SourceRecord, the normalized view of one HDL file.
//
// Every record carries an order key. Compile order is expressed only through
// these keys; the origin of a record (main or testbench) never influences
// where it lands in the sequence.
package model

import (
	"fmt"
	"strings"
)

// Kind classifies a source file by how it must be compiled.
type Kind int

const (
	// KindPlain is compiled with the default compiler invocation.
	KindPlain Kind = iota
	// KindRevisionTagged is written against a specific language revision
	// (e.g. VHDL-2008) and needs revision and optimization flags.
	KindRevisionTagged
	// KindDescriptor is a packaging descriptor (IP-XACT) that is shipped with
	// the sources but never compiled.
	KindDescriptor
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindRevisionTagged:
		return "revision-tagged"
	case KindDescriptor:
		return "descriptor"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a manifest file type such as "VHDL 2008", "VHDL" or
// "Verilog" to a Kind and, for revision-tagged files, the language revision.
func ParseKind(fileType string) (Kind, string, error) {
	ft := strings.TrimSpace(fileType)
	if ft == "" {
		return 0, "", fmt.Errorf("file type is empty")
	}
	if strings.Contains(strings.ToUpper(ft), "IP-XACT") {
		return KindDescriptor, "", nil
	}

	fields := strings.Fields(ft)
	switch strings.ToLower(fields[0]) {
	case "vhdl", "verilog", "systemverilog":
	default:
		return 0, "", fmt.Errorf("unsupported file type %q", fileType)
	}

	if len(fields) == 1 {
		return KindPlain, "", nil
	}
	if len(fields) == 2 && isDigits(fields[1]) {
		return KindRevisionTagged, fields[1], nil
	}
	return 0, "", fmt.Errorf("unsupported file type %q", fileType)
}

// Origin records which part of the manifest a source came from.
type Origin int

const (
	OriginMain Origin = iota
	OriginTestbench
)

// String returns the manifest spelling of the origin.
func (o Origin) String() string {
	if o == OriginTestbench {
		return "testbench"
	}
	return "main"
}

// ParseOrigin is the inverse of Origin.String.
func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "main", "src":
		return OriginMain, nil
	case "testbench", "tb":
		return OriginTestbench, nil
	default:
		return 0, fmt.Errorf("unknown origin %q", s)
	}
}

// OrderKey is the token that places a record in the global compile order.
type OrderKey string

// Compare orders two keys. A key is split into its leading run of digits
// and the rest. Keys with a leading number sort before keys without one and
// compare by that number first, so "30" and "030" are equal and "110"
// follows "30". Ties and keys without a leading number compare lexically.
func (k OrderKey) Compare(other OrderKey) int {
	an, arest := splitNumber(string(k))
	bn, brest := splitNumber(string(other))
	switch {
	case an != "" && bn == "":
		return -1
	case an == "" && bn != "":
		return 1
	}
	if c := compareNumbers(an, bn); c != 0 {
		return c
	}
	return strings.Compare(arest, brest)
}

// splitNumber cuts s after its leading digits.
func splitNumber(s string) (number, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// compareNumbers compares two digit strings by value.
func compareNumbers(a, b string) int {
	a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// SourceRecord is one HDL file of the project.
type SourceRecord struct {
	// Path is relative to the project base directory, slash separated.
	Path string
	Kind Kind
	// Revision is the language revision for KindRevisionTagged records, e.g. "2008".
	Revision string
	Order    OrderKey
	Origin   Origin
}

// Compilable reports whether the record takes part in the compile phase.
func (r SourceRecord) Compilable() bool {
	return r.Kind != KindDescriptor
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
