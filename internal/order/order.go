// Package order derives the single global compile order of a project from
// the order keys of its source records.
package order

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/hdlplan/internal/freshness"
	"github.com/specialistvlad/hdlplan/internal/model"
)

// Resolve returns the compilable records sorted ascending by order key.
//
// Main and testbench records are merged into one sequence; cross-origin
// dependencies are expressed purely through the keys. The input slice is
// not modified. Two records whose keys compare equal make the order
// undefined and are rejected with a *model.ConfigurationError, as are two
// records that would share a freshness marker and compile target.
func Resolve(records []model.SourceRecord) ([]model.SourceRecord, error) {
	ordered := make([]model.SourceRecord, 0, len(records))
	for _, r := range records {
		if r.Compilable() {
			ordered = append(ordered, r)
		}
	}

	slices.SortStableFunc(ordered, func(a, b model.SourceRecord) int {
		return a.Order.Compare(b.Order)
	})

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if prev.Order.Compare(cur.Order) == 0 {
			return nil, &model.ConfigurationError{
				Subject: fmt.Sprintf("order %q", cur.Order),
				Reason:  fmt.Sprintf("shared by %q and %q", prev.Path, cur.Path),
			}
		}
	}

	markers := make(map[string]string, len(ordered))
	for _, r := range ordered {
		marker := freshness.MarkerName(r.Path)
		if prev, ok := markers[marker]; ok {
			return nil, &model.ConfigurationError{
				Subject: fmt.Sprintf("source %q", r.Path),
				Reason:  fmt.Sprintf("marker %q is already used by %q", marker, prev),
			}
		}
		markers[marker] = r.Path
	}

	return ordered, nil
}
