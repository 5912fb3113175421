package emit

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/hdlplan/internal/plan"
)

// HCL writes the plan as an HCL document: one property block per property
// and one target block per target, with each action as a labelled block.
type HCL struct{}

// Emit implements Emitter.
func (h *HCL) Emit(w io.Writer, p *plan.Plan) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("name", cty.StringVal(p.Name))
	body.SetAttributeValue("default", cty.StringVal(p.Layout.TargetAll()))

	for _, prop := range p.Properties {
		body.AppendNewline()
		if prop.Comment != "" {
			body.AppendUnstructuredTokens(hclwrite.Tokens{{
				Type:  hclsyntax.TokenComment,
				Bytes: []byte("# " + prop.Comment + "\n"),
			}})
		}
		pb := body.AppendNewBlock("property", []string{prop.Name}).Body()
		pb.SetAttributeValue("value", cty.StringVal(prop.Value))
	}

	for _, t := range p.Targets {
		body.AppendNewline()
		tb := body.AppendNewBlock("target", []string{t.Name}).Body()
		setString(tb, "description", t.Description)
		if len(t.Depends) > 0 {
			tb.SetAttributeValue("depends", stringList(t.Depends))
		}
		setString(tb, "if_set", t.If)
		setString(tb, "unless_set", t.Unless)
		setString(tb, "subject", t.Subject)

		for _, act := range t.Actions {
			if err := hclAction(tb, act); err != nil {
				return fmt.Errorf("target %q: %w", t.Name, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write hcl document: %w", err)
	}
	return nil
}

func hclAction(parent *hclwrite.Body, act plan.Action) error {
	switch a := act.(type) {
	case plan.Exec:
		hclExec(parent.AppendNewBlock("action", []string{"exec"}).Body(), a)
	case plan.Mkdir:
		parent.AppendNewBlock("action", []string{"mkdir"}).Body().
			SetAttributeValue("dir", cty.StringVal(a.Dir))
	case plan.Delete:
		b := parent.AppendNewBlock("action", []string{"delete"}).Body()
		setString(b, "dir", a.Dir)
		b.SetAttributeValue("fail_on_error", cty.BoolVal(a.FailOnError))
		if a.Fileset != nil {
			fs := b.AppendNewBlock("fileset", nil).Body()
			fs.SetAttributeValue("dir", cty.StringVal(a.Fileset.Dir))
			fs.SetAttributeValue("include", stringList(a.Fileset.Include))
			fs.SetAttributeValue("exclude", stringList(a.Fileset.Exclude))
		}
	case plan.Echo:
		b := parent.AppendNewBlock("action", []string{"echo"}).Body()
		setString(b, "file", a.File)
		setString(b, "text", a.Text)
		setString(b, "message", a.Message)
		if a.Append {
			b.SetAttributeValue("append", cty.True)
		}
	case plan.Touch:
		parent.AppendNewBlock("action", []string{"touch"}).Body().
			SetAttributeValue("file", cty.StringVal(a.File))
	case plan.UpToDate:
		b := parent.AppendNewBlock("action", []string{"uptodate"}).Body()
		b.SetAttributeValue("src", cty.StringVal(a.Src))
		b.SetAttributeValue("target", cty.StringVal(a.Target))
		b.SetAttributeValue("property", cty.StringVal(a.Property))
	case plan.Parallel:
		b := parent.AppendNewBlock("action", []string{"parallel"}).Body()
		b.SetAttributeValue("threads", cty.NumberIntVal(int64(a.Threads)))
		for i, task := range a.Tasks {
			name := fmt.Sprintf("task%d", i)
			if i < len(a.Names) {
				name = a.Names[i]
			}
			hclExec(b.AppendNewBlock("task", []string{name}).Body(), task)
		}
	case plan.Available:
		b := parent.AppendNewBlock("action", []string{"available"}).Body()
		b.SetAttributeValue("file", cty.StringVal(a.File))
		b.SetAttributeValue("property", cty.StringVal(a.Property))
	case plan.Call:
		parent.AppendNewBlock("action", []string{"call"}).Body().
			SetAttributeValue("target", cty.StringVal(a.Target))
	case plan.Aggregate:
		b := parent.AppendNewBlock("action", []string{"aggregate"}).Body()
		b.SetAttributeValue("results_dir", cty.StringVal(a.ResultsDir))
		b.SetAttributeValue("output", cty.StringVal(a.Output))
		b.SetAttributeValue("suites", stringList(a.Suites))
	case plan.ResultGate:
		b := parent.AppendNewBlock("action", []string{"result_gate"}).Body()
		b.SetAttributeValue("file", cty.StringVal(a.File))
		b.SetAttributeValue("message", cty.StringVal(a.Message))
	default:
		return fmt.Errorf("unsupported action %T", act)
	}
	return nil
}

func hclExec(b *hclwrite.Body, x plan.Exec) {
	b.SetAttributeValue("executable", cty.StringVal(x.Executable))
	setString(b, "dir", x.Dir)
	b.SetAttributeValue("args", stringList(x.Args))
	setString(b, "output", x.Output)
	setString(b, "error", x.Error)
	setString(b, "status", x.Status)
	if x.FailOnError {
		b.SetAttributeValue("fail_on_error", cty.True)
	}
}

func setString(b *hclwrite.Body, name, value string) {
	if value != "" {
		b.SetAttributeValue(name, cty.StringVal(value))
	}
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}
