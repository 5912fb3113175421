// Package emit serializes a plan.Plan into build descriptors that external
// tools execute: an Ant build file or an HCL document of the same target
// graph.
package emit

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/specialistvlad/hdlplan/internal/plan"
)

// Emitter writes a plan in one descriptor dialect.
type Emitter interface {
	Emit(w io.Writer, p *plan.Plan) error
}

// Formats lists the names ForFormat accepts.
var Formats = []string{"ant", "hcl"}

// ForFormat returns the emitter registered under name.
func ForFormat(name string) (Emitter, error) {
	switch strings.ToLower(name) {
	case "ant":
		return &Ant{}, nil
	case "hcl":
		return &HCL{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q, want one of %s", name, strings.Join(Formats, ", "))
	}
}

// IsFormat reports whether ForFormat accepts name.
func IsFormat(name string) bool {
	return slices.Contains(Formats, strings.ToLower(name))
}
