package emit

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/specialistvlad/hdlplan/internal/plan"
)

// Ant writes the plan as an Apache Ant build file.
type Ant struct{}

// element is a generic XML element; the Ant dialect has too many element
// kinds to give each its own struct.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",attr"`
	Comment  string     `xml:",comment"`
	Text     string     `xml:",chardata"`
	Children []*element `xml:",any"`
}

// el builds an element from alternating attribute names and values. Empty
// values are skipped.
func el(name string, attrs ...string) *element {
	e := &element{XMLName: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			continue
		}
		e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	return e
}

func (e *element) add(children ...*element) *element {
	e.Children = append(e.Children, children...)
	return e
}

// Emit implements Emitter.
func (a *Ant) Emit(w io.Writer, p *plan.Plan) error {
	root := el("project", "name", p.Name, "default", p.Layout.TargetAll(), "basedir", ".")
	for _, prop := range p.Properties {
		e := el("property", "name", prop.Name, "value", prop.Value)
		if prop.Comment != "" {
			e.Comment = " " + prop.Comment + " "
		}
		root.add(e)
	}

	for _, t := range p.Targets {
		te := el("target",
			"name", t.Name,
			"description", t.Description,
			"depends", strings.Join(t.Depends, ", "),
			"if", t.If,
			"unless", t.Unless,
		)
		for _, act := range t.Actions {
			children, err := antAction(act)
			if err != nil {
				return fmt.Errorf("target %q: %w", t.Name, err)
			}
			te.add(children...)
		}
		root.add(te)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "   ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to encode ant build file: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func antAction(act plan.Action) ([]*element, error) {
	switch a := act.(type) {
	case plan.Exec:
		return []*element{antExec(a)}, nil
	case plan.Mkdir:
		return []*element{el("mkdir", "dir", a.Dir)}, nil
	case plan.Delete:
		return []*element{antDelete(a)}, nil
	case plan.Echo:
		if a.File == "" {
			return []*element{el("echo", "message", a.Message)}, nil
		}
		e := el("echo", "file", a.File, "append", strconv.FormatBool(a.Append))
		e.Text = a.Text
		return []*element{e}, nil
	case plan.Touch:
		return []*element{el("touch", "file", a.File)}, nil
	case plan.UpToDate:
		return []*element{el("uptodate", "srcfile", a.Src, "targetfile", a.Target, "property", a.Property)}, nil
	case plan.Parallel:
		e := el("parallel", "threadCount", strconv.Itoa(a.Threads))
		for _, task := range a.Tasks {
			e.add(antExec(task))
		}
		return []*element{e}, nil
	case plan.Available:
		return []*element{el("available", "file", a.File, "property", a.Property)}, nil
	case plan.Call:
		return []*element{el("antcall", "target", a.Target)}, nil
	case plan.Aggregate:
		return []*element{antAggregate(a)}, nil
	case plan.ResultGate:
		return antResultGate(a), nil
	default:
		return nil, fmt.Errorf("unsupported action %T", act)
	}
}

func antExec(x plan.Exec) *element {
	e := el("exec", "executable", x.Executable, "dir", x.Dir)
	if x.FailOnError {
		e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: "failonerror"}, Value: "true"})
	}
	if x.Output != "" || x.Error != "" {
		e.add(el("redirector", "output", x.Output, "error", x.Error, "alwayslog", "true"))
	}
	for _, arg := range x.Args {
		e.add(el("arg", "value", arg))
	}
	if x.Status == "" {
		return e
	}

	// The exit status goes to a property named after the status file and is
	// then written there. A process that cannot start leaves the property
	// unset, so the file receives the unexpanded reference, which the
	// collector counts as an error.
	e.Attrs = append(e.Attrs,
		xml.Attr{Name: xml.Name{Local: "resultproperty"}, Value: x.Status},
		xml.Attr{Name: xml.Name{Local: "failifexecutionfails"}, Value: "false"},
	)
	return el("sequential").add(e, el("echo", "file", x.Status, "message", "${"+x.Status+"}"))
}

func antDelete(d plan.Delete) *element {
	failOnError := strconv.FormatBool(d.FailOnError)
	if d.Fileset == nil {
		return el("delete", "dir", d.Dir, "failonerror", failOnError)
	}
	fs := el("fileset", "dir", d.Fileset.Dir)
	for _, inc := range d.Fileset.Include {
		fs.add(el("include", "name", inc))
	}
	for _, exc := range d.Fileset.Exclude {
		fs.add(el("exclude", "name", exc))
	}
	return el("delete", "failonerror", failOnError, "includeemptydirs", "true").add(fs)
}

// antAggregate delegates result collection to the hdlplan binary.
func antAggregate(a plan.Aggregate) *element {
	x := plan.Exec{
		Executable: "${hdlplan-executable}",
		Args:       append([]string{"collect", "--results-dir", a.ResultsDir, "--out", a.Output}, a.Suites...),
	}
	return antExec(x)
}

// antResultGate reads the aggregate counters with xmlproperty and fails
// unless both are zero. A missing aggregate leaves the counters unset, so
// the conditions do not hold and the build fails.
func antResultGate(g plan.ResultGate) []*element {
	noFailures := el("condition", "property", "no-failures").
		add(el("equals", "arg1", "${testsuites(failures)}", "arg2", "0"))
	noErrors := el("condition", "property", "no-errors").
		add(el("equals", "arg1", "${testsuites(errors)}", "arg2", "0"))
	both := el("condition", "property", "no-errors-or-failures").
		add(el("and").add(
			el("isset", "property", "no-failures"),
			el("isset", "property", "no-errors"),
		))
	return []*element{
		el("xmlproperty", "file", g.File, "keepRoot", "true"),
		noFailures,
		noErrors,
		both,
		el("fail", "unless", "no-errors-or-failures", "message", g.Message),
	}
}
