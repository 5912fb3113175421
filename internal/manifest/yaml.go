package manifest

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/hdlplan/internal/ctxlog"
	"github.com/specialistvlad/hdlplan/internal/model"
)

// YAMLLoader reads YAML manifests.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML manifest loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

type yamlRoot struct {
	Project struct {
		Name            string `yaml:"name"`
		TopEntity       string `yaml:"top_entity"`
		TopEntityFile   string `yaml:"top_entity_file"`
		TBTopEntity     string `yaml:"tb_top_entity"`
		TBTopEntityFile string `yaml:"tb_top_entity_file"`
		StimulusPath    string `yaml:"stimulus_path"`
	} `yaml:"project"`
	Sources []struct {
		Path   string    `yaml:"path"`
		Type   string    `yaml:"type"`
		Order  yamlOrder `yaml:"order"`
		Origin string    `yaml:"origin"`
	} `yaml:"sources"`
	Suites []struct {
		Name       string `yaml:"name"`
		File       string `yaml:"file"`
		EntryFile  string `yaml:"entry_file"`
		EntryLabel string `yaml:"entry_label"`
		Indexes    int    `yaml:"indexes"`
	} `yaml:"test_suites"`
	Labs []struct {
		Name       string `yaml:"name"`
		File       string `yaml:"file"`
		EntryFile  string `yaml:"entry_file"`
		EntryLabel string `yaml:"entry_label"`
	} `yaml:"test_labs"`
}

// yamlOrder keeps the scalar exactly as written, so `order: 010` stays "010"
// instead of being read as an octal or decimal number.
type yamlOrder string

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *yamlOrder) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: order must be a scalar", value.Line)
	}
	*o = yamlOrder(value.Value)
	return nil
}

// Load reads and decodes one YAML manifest file. Unknown keys are errors.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*model.Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML manifest loader started.", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	var root yamlRoot
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil {
		return nil, &model.ConfigurationError{Subject: path, Reason: "failed to decode YAML file", Err: err}
	}

	m := &model.Manifest{
		Project: model.Project{
			Name:            root.Project.Name,
			TopEntity:       root.Project.TopEntity,
			TopEntityFile:   root.Project.TopEntityFile,
			TBTopEntity:     root.Project.TBTopEntity,
			TBTopEntityFile: root.Project.TBTopEntityFile,
			StimulusPath:    root.Project.StimulusPath,
		},
	}
	for _, s := range root.Sources {
		record, err := toRecord(rawSource{Path: s.Path, Type: s.Type, Order: string(s.Order), Origin: s.Origin})
		if err != nil {
			return nil, err
		}
		m.Sources = append(m.Sources, record)
	}
	for _, s := range root.Suites {
		m.Suites = append(m.Suites, model.SuiteDecl(s))
	}
	for _, lab := range root.Labs {
		m.Labs = append(m.Labs, model.TestLabSpec(lab))
	}

	logger.Debug("YAML manifest loading complete.",
		"project", m.Project.Name,
		"sources", len(m.Sources),
		"suites", len(m.Suites),
		"labs", len(m.Labs),
	)
	return m, nil
}
