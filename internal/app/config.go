package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/hdlplan/internal/emit"
)

// Commands the application understands.
const (
	CommandGenerate = "generate"
	CommandRun      = "run"
	CommandCollect  = "collect"
	CommandGate     = "gate"
	CommandClean    = "clean"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command string

	ManifestPath string // .hcl, .yaml or .yml
	// OutPath is the descriptor file for generate and the aggregate file for
	// collect and gate. Empty or "-" means standard output for generate.
	OutPath    string
	Format     string
	Toolchain  string
	Threads    int
	BaseDir    string
	Target     string
	ResultsDir string
	Suites     []string
	// Properties preset plan properties for run, e.g. vsim-executable.
	Properties map[string]string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg for its command and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Toolchain == "" {
		cfg.Toolchain = "modelsim"
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	if cfg.Threads < 0 {
		return nil, fmt.Errorf("threads must not be negative, got %d", cfg.Threads)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}

	switch cfg.Command {
	case CommandGenerate:
		if cfg.ManifestPath == "" {
			return nil, errors.New("manifest is a required configuration field and cannot be empty")
		}
		if cfg.Format == "" {
			cfg.Format = "ant"
		}
		if !emit.IsFormat(cfg.Format) {
			return nil, fmt.Errorf("format must be one of %s, got %q", strings.Join(emit.Formats, ", "), cfg.Format)
		}
	case CommandRun:
		if cfg.ManifestPath == "" {
			return nil, errors.New("manifest is a required configuration field and cannot be empty")
		}
		if cfg.Target == "" {
			cfg.Target = cfg.Toolchain + "-all"
		}
	case CommandCollect:
		if cfg.ResultsDir == "" {
			return nil, errors.New("results-dir is a required configuration field and cannot be empty")
		}
		if cfg.OutPath == "" {
			return nil, errors.New("out is a required configuration field and cannot be empty")
		}
	case CommandGate, CommandClean:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	return &cfg, nil
}
