package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/hdlplan/internal/ctxlog"
	"github.com/specialistvlad/hdlplan/internal/model"
)

// HCLLoader reads HCL manifests.
type HCLLoader struct{}

// NewHCLLoader creates a new HCL manifest loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

// hclRoot decodes every top-level block of a manifest. Unknown blocks and
// attributes are decode errors.
type hclRoot struct {
	Projects []*hclProject `hcl:"project,block"`
	Sources  []*hclSource  `hcl:"source,block"`
	Suites   []*hclSuite   `hcl:"test_suite,block"`
	Labs     []*hclLab     `hcl:"test_lab,block"`
}

type hclProject struct {
	Name            string `hcl:"name,label"`
	TopEntity       string `hcl:"top_entity,optional"`
	TopEntityFile   string `hcl:"top_entity_file,optional"`
	TBTopEntity     string `hcl:"tb_top_entity,optional"`
	TBTopEntityFile string `hcl:"tb_top_entity_file,optional"`
	StimulusPath    string `hcl:"stimulus_path,optional"`
}

type hclSource struct {
	Path   string `hcl:"path,label"`
	Type   string `hcl:"type"`
	Origin string `hcl:"origin,optional"`
	// Order may be written as a string or a number.
	Order hcl.Expression `hcl:"order"`
}

type hclSuite struct {
	Name       string `hcl:"name,label"`
	File       string `hcl:"file,optional"`
	EntryFile  string `hcl:"entry_file,optional"`
	EntryLabel string `hcl:"entry_label,optional"`
	Indexes    int    `hcl:"indexes,optional"`
}

type hclLab struct {
	Name       string `hcl:"name,label"`
	File       string `hcl:"file,optional"`
	EntryFile  string `hcl:"entry_file,optional"`
	EntryLabel string `hcl:"entry_label,optional"`
}

// Load parses and decodes one HCL manifest file.
func (l *HCLLoader) Load(ctx context.Context, path string) (*model.Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL manifest loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &model.ConfigurationError{Subject: path, Reason: "failed to parse HCL file", Err: diags}
	}

	var root hclRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, &model.ConfigurationError{Subject: path, Reason: "failed to decode HCL file", Err: diags}
	}

	if len(root.Projects) != 1 {
		return nil, &model.ConfigurationError{
			Subject: path,
			Reason:  fmt.Sprintf("exactly one project block is required, found %d", len(root.Projects)),
		}
	}
	p := root.Projects[0]

	m := &model.Manifest{
		Project: model.Project{
			Name:            p.Name,
			TopEntity:       p.TopEntity,
			TopEntityFile:   p.TopEntityFile,
			TBTopEntity:     p.TBTopEntity,
			TBTopEntityFile: p.TBTopEntityFile,
			StimulusPath:    p.StimulusPath,
		},
	}

	for _, s := range root.Sources {
		order, err := orderString(s.Order)
		if err != nil {
			return nil, &model.ConfigurationError{Subject: fmt.Sprintf("source %q", s.Path), Reason: err.Error()}
		}
		record, err := toRecord(rawSource{Path: s.Path, Type: s.Type, Order: order, Origin: s.Origin})
		if err != nil {
			return nil, err
		}
		m.Sources = append(m.Sources, record)
	}
	for _, s := range root.Suites {
		m.Suites = append(m.Suites, model.SuiteDecl{
			Name:       s.Name,
			File:       s.File,
			EntryFile:  s.EntryFile,
			EntryLabel: s.EntryLabel,
			Indexes:    s.Indexes,
		})
	}
	for _, lab := range root.Labs {
		m.Labs = append(m.Labs, model.TestLabSpec{
			Name:       lab.Name,
			File:       lab.File,
			EntryFile:  lab.EntryFile,
			EntryLabel: lab.EntryLabel,
		})
	}

	logger.Debug("HCL manifest loading complete.",
		"project", m.Project.Name,
		"sources", len(m.Sources),
		"suites", len(m.Suites),
		"labs", len(m.Labs),
	)
	return m, nil
}

// orderString evaluates an order attribute. Numbers are accepted for
// convenience but lose leading zeros, which is harmless because all-digit
// keys compare numerically.
func orderString(expr hcl.Expression) (string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("invalid order: %w", diags)
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return "", fmt.Errorf("order must not be null")
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("order must be a string or a number: %w", err)
	}
	return str.AsString(), nil
}
