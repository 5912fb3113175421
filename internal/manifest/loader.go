package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/hdlplan/internal/model"
)

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads the manifest at path and translates it into the
	// format-agnostic model. The result is not validated yet.
	Load(ctx context.Context, path string) (*model.Manifest, error)
}

// ForPath picks the loader for a manifest file by its extension.
func ForPath(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return NewHCLLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported manifest format %q: want .hcl, .yaml or .yml", filepath.Ext(path))
	}
}

// Load reads and validates the manifest at path.
func Load(ctx context.Context, path string) (*model.Manifest, error) {
	loader, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	m, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// rawSource is a source entry as both formats spell it.
type rawSource struct {
	Path   string
	Type   string
	Order  string
	Origin string
}

// toRecord normalizes a raw source entry.
func toRecord(s rawSource) (model.SourceRecord, error) {
	subject := fmt.Sprintf("source %q", s.Path)

	kind, revision, err := model.ParseKind(s.Type)
	if err != nil {
		return model.SourceRecord{}, &model.ConfigurationError{Subject: subject, Reason: err.Error()}
	}
	origin, err := model.ParseOrigin(s.Origin)
	if err != nil {
		return model.SourceRecord{}, &model.ConfigurationError{Subject: subject, Reason: err.Error()}
	}

	return model.SourceRecord{
		Path:     filepath.ToSlash(s.Path),
		Kind:     kind,
		Revision: revision,
		Order:    model.OrderKey(strings.TrimSpace(s.Order)),
		Origin:   origin,
	}, nil
}
