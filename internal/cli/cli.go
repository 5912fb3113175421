package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/hdlplan/internal/app"
)

// Exit codes of the process.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `
hdlplan - build plans for HDL simulation projects.

Usage:
  hdlplan <command> [options]

Commands:
  generate   write the build descriptor for a manifest (ant or hcl)
  run        execute a target of the plan locally
  collect    fold per-suite outputs into the aggregate result
  gate       fail unless the aggregate result reports no errors or failures
  clean      remove every freshness marker

Run 'hdlplan <command> -h' for the options of a command.
`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	if len(args) == 0 {
		fmt.Fprint(output, usage)
		return nil, true, nil
	}
	command := args[0]
	switch command {
	case "-h", "--help", "help":
		fmt.Fprint(output, usage)
		return nil, true, nil
	case app.CommandGenerate, app.CommandRun, app.CommandCollect, app.CommandGate, app.CommandClean:
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unknown command %q, run 'hdlplan -h' for usage", command)}
	}

	flagSet := flag.NewFlagSet("hdlplan "+command, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprintf(output, "\nUsage:\n  hdlplan %s [options]%s\n\nOptions:\n", command, positional(command))
		flagSet.PrintDefaults()
	}

	cfg := app.Config{Command: command}
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	switch command {
	case app.CommandGenerate:
		manifestFlags(flagSet, &cfg)
		flagSet.StringVar(&cfg.OutPath, "out", "", "Descriptor output file. Empty or '-' writes to stdout.")
		flagSet.StringVar(&cfg.Format, "format", "ant", "Descriptor format. Options: 'ant' or 'hcl'.")
	case app.CommandRun:
		manifestFlags(flagSet, &cfg)
		flagSet.StringVar(&cfg.BaseDir, "basedir", ".", "Project base directory all plan paths are relative to.")
		flagSet.StringVar(&cfg.Target, "target", "", "Target to run. Defaults to '<toolchain>-all'.")
		flagSet.IntVar(&cfg.HealthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
		flagSet.Func("D", "Preset a plan property as name=value, e.g. -D vsim-executable=/opt/questa/bin/vsim. Repeatable.", func(s string) error {
			name, value, ok := strings.Cut(s, "=")
			if !ok || name == "" {
				return errors.New("want name=value")
			}
			if cfg.Properties == nil {
				cfg.Properties = make(map[string]string)
			}
			cfg.Properties[name] = value
			return nil
		})
	case app.CommandCollect:
		flagSet.StringVar(&cfg.ResultsDir, "results-dir", "", "Directory holding <suite>.out and <suite>.err files.")
		flagSet.StringVar(&cfg.OutPath, "out", "", "Aggregate result file to write.")
	case app.CommandGate:
		flagSet.StringVar(&cfg.BaseDir, "basedir", ".", "Project base directory.")
		flagSet.StringVar(&cfg.Toolchain, "toolchain", "modelsim", "Simulator toolchain; selects the default aggregate path.")
		flagSet.StringVar(&cfg.OutPath, "file", "", "Aggregate result file. Defaults to the toolchain's results directory.")
	case app.CommandClean:
		flagSet.StringVar(&cfg.BaseDir, "basedir", ".", "Project base directory.")
		flagSet.StringVar(&cfg.Toolchain, "toolchain", "modelsim", "Simulator toolchain whose markers are removed.")
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	if command == app.CommandCollect {
		cfg.Suites = flagSet.Args()
	} else if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	cfg.LogFormat = strings.ToLower(*logFormatFlag)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(*logLevelFlag)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func manifestFlags(fs *flag.FlagSet, cfg *app.Config) {
	fs.StringVar(&cfg.ManifestPath, "manifest", "", "Project manifest (.hcl, .yaml or .yml).")
	fs.StringVar(&cfg.Toolchain, "toolchain", "modelsim", "Simulator toolchain; prefixes every target name.")
	fs.IntVar(&cfg.Threads, "threads", 0, "Width of the simulation fan-out. 0 uses the default of 8.")
}

func positional(command string) string {
	if command == app.CommandCollect {
		return " [suite ...]"
	}
	return ""
}
