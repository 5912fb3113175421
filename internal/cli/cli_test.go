package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/hdlplan/internal/app"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      string
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "generate with all flags",
			args: []string{
				"generate",
				"--manifest=project.hcl",
				"--out", "build.xml",
				"--format=hcl",
				"--toolchain", "questa",
				"--threads=4",
				"--log-level=debug",
				"--log-format=json",
			},
			expectedConfig: &app.Config{
				Command:      app.CommandGenerate,
				ManifestPath: "project.hcl",
				OutPath:      "build.xml",
				Format:       "hcl",
				Toolchain:    "questa",
				Threads:      4,
				BaseDir:      ".",
				LogFormat:    "json",
				LogLevel:     "debug",
			},
		},
		{
			name: "generate defaults",
			args: []string{"generate", "-manifest", "project.yaml"},
			expectedConfig: &app.Config{
				Command:      app.CommandGenerate,
				ManifestPath: "project.yaml",
				Format:       "ant",
				Toolchain:    "modelsim",
				BaseDir:      ".",
				LogFormat:    "text",
				LogLevel:     "info",
			},
		},
		{
			name: "run with properties",
			args: []string{
				"run",
				"--manifest", "project.hcl",
				"--basedir", "/work",
				"-D", "vsim-executable=/opt/bin/vsim",
				"-D", "gui=",
				"--healthcheck-port", "8080",
			},
			expectedConfig: &app.Config{
				Command:         app.CommandRun,
				ManifestPath:    "project.hcl",
				Toolchain:       "modelsim",
				BaseDir:         "/work",
				Target:          "modelsim-all",
				Properties:      map[string]string{"vsim-executable": "/opt/bin/vsim", "gui": ""},
				LogFormat:       "text",
				LogLevel:        "info",
				HealthcheckPort: 8080,
			},
		},
		{
			name: "collect takes suite names",
			args: []string{"collect", "--results-dir", "res", "--out", "res/results.xml", "basic_0", "basic_1"},
			expectedConfig: &app.Config{
				Command:    app.CommandCollect,
				Toolchain:  "modelsim",
				BaseDir:    ".",
				ResultsDir: "res",
				OutPath:    "res/results.xml",
				Suites:     []string{"basic_0", "basic_1"},
				LogFormat:  "text",
				LogLevel:   "info",
			},
		},
		{
			name: "gate",
			args: []string{"gate", "--file", "results.xml"},
			expectedConfig: &app.Config{
				Command:   app.CommandGate,
				Toolchain: "modelsim",
				BaseDir:   ".",
				OutPath:   "results.xml",
				LogFormat: "text",
				LogLevel:  "info",
			},
		},
		{
			name: "clean",
			args: []string{"clean", "--toolchain", "questa", "--basedir", "/work"},
			expectedConfig: &app.Config{
				Command:   app.CommandClean,
				Toolchain: "questa",
				BaseDir:   "/work",
				LogFormat: "text",
				LogLevel:  "info",
			},
		},
		{
			name:       "no arguments prints usage",
			args:       nil,
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
				require.Contains(t, output, "generate")
			},
		},
		{
			name:       "top-level help",
			args:       []string{"--help"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "hdlplan <command> [options]")
			},
		},
		{
			name:       "command help",
			args:       []string{"run", "-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "hdlplan run [options]")
				require.Contains(t, output, "-healthcheck-port")
			},
		},
		{
			name:      "unknown command",
			args:      []string{"deploy"},
			expectErr: `unknown command "deploy"`,
		},
		{
			name:      "unknown flag",
			args:      []string{"generate", "--nope"},
			expectErr: "flag provided but not defined: -nope",
		},
		{
			name:      "flag of another command",
			args:      []string{"gate", "--manifest", "project.hcl"},
			expectErr: "flag provided but not defined: -manifest",
		},
		{
			name:      "malformed property",
			args:      []string{"run", "--manifest", "p.hcl", "-D", "novalue"},
			expectErr: "want name=value",
		},
		{
			name:      "missing manifest",
			args:      []string{"generate"},
			expectErr: "manifest is a required configuration field",
		},
		{
			name:      "invalid format",
			args:      []string{"generate", "--manifest", "p.hcl", "--format", "make"},
			expectErr: `format must be one of ant, hcl, got "make"`,
		},
		{
			name:      "stray positional argument",
			args:      []string{"run", "--manifest", "p.hcl", "extra"},
			expectErr: `unexpected argument "extra"`,
		},
		{
			name:      "invalid log format",
			args:      []string{"clean", "--log-format", "xml"},
			expectErr: "invalid log-format",
		},
		{
			name:      "invalid log level",
			args:      []string{"clean", "--log-level", "trace"},
			expectErr: "invalid log-level",
		},
		{
			name:      "negative threads",
			args:      []string{"generate", "--manifest", "p.hcl", "--threads", "-1"},
			expectErr: "threads must not be negative",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer

			cfg, shouldExit, err := Parse(tc.args, &out)

			if tc.expectErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr), "error should be an ExitError")
				require.Equal(t, ExitUsage, exitErr.Code)
				require.Contains(t, exitErr.Message, tc.expectErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectExit, shouldExit)
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
					t.Errorf("Parse() config mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
