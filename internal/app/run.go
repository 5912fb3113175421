package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/hdlplan/internal/ctxlog"
	"github.com/specialistvlad/hdlplan/internal/emit"
	"github.com/specialistvlad/hdlplan/internal/freshness"
	"github.com/specialistvlad/hdlplan/internal/manifest"
	"github.com/specialistvlad/hdlplan/internal/plan"
	"github.com/specialistvlad/hdlplan/internal/results"
	"github.com/specialistvlad/hdlplan/internal/runner"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	var err error
	switch a.config.Command {
	case CommandGenerate:
		err = a.generate(ctx)
	case CommandRun:
		err = a.execute(ctx)
	case CommandCollect:
		err = a.collect(ctx)
	case CommandGate:
		err = a.gate(ctx)
	case CommandClean:
		err = a.clean(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

func (a *App) layout() plan.Layout {
	l := plan.DefaultLayout(a.config.Toolchain)
	if a.config.Threads > 0 {
		l.Threads = a.config.Threads
	}
	return l
}

// loadPlan reads the manifest and generates the plan for it.
func (a *App) loadPlan(ctx context.Context) (*plan.Plan, error) {
	m, err := manifest.Load(ctx, a.config.ManifestPath)
	if err != nil {
		return nil, err
	}
	p, err := plan.Generate(m, a.layout())
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Plan generated.",
		"targets", len(p.Targets),
		"compile_steps", len(p.Compile),
		"suite_runs", len(p.Suites),
	)
	return p, nil
}

func (a *App) generate(ctx context.Context) error {
	p, err := a.loadPlan(ctx)
	if err != nil {
		return err
	}
	emitter, err := emit.ForFormat(a.config.Format)
	if err != nil {
		return err
	}

	out := a.config.OutPath
	if out == "" || out == "-" {
		if err := emitter.Emit(a.outW, p); err != nil {
			return err
		}
		a.logger.Info("Build descriptor written.", "path", "-", "format", a.config.Format, "targets", len(p.Targets))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := emitter.Emit(f, p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	a.logger.Info("Build descriptor written.", "path", out, "format", a.config.Format, "targets", len(p.Targets))
	return nil
}

func (a *App) execute(ctx context.Context) error {
	p, err := a.loadPlan(ctx)
	if err != nil {
		return err
	}

	if _, err := a.healthCheckServer(); err != nil {
		return err
	}
	defer a.closeHealthCheckServer()

	r, err := runner.New(p, a.config.BaseDir,
		runner.WithProperties(a.config.Properties),
		runner.WithOutput(a.outW, a.outW),
		runner.WithTargetObserver(func(target string) { a.currentTarget.Store(target) }),
	)
	if err != nil {
		return err
	}
	if err := r.Run(ctx, a.config.Target); err != nil {
		return err
	}
	if failures := r.TaskFailures(); len(failures) > 0 {
		a.logger.Warn("Some simulation tasks failed.", "count", len(failures))
	}
	return nil
}

func (a *App) collect(ctx context.Context) error {
	c := &results.Collector{
		ResultsDir: a.config.ResultsDir,
		Output:     a.config.OutPath,
	}
	agg, err := c.Collect(ctx, a.config.Suites)
	if err != nil {
		return err
	}
	return results.Summary(a.outW, agg)
}

// gate evaluates the aggregate written by a previous run.
func (a *App) gate(ctx context.Context) error {
	path := a.config.OutPath
	if path == "" {
		path = filepath.Join(a.config.BaseDir, filepath.FromSlash(a.layout().AggregatePath()))
	}

	agg, err := results.Evaluate(path)
	if agg != nil {
		if serr := results.Summary(a.outW, agg); serr != nil {
			return serr
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", plan.ExitGateMessage, err)
	}
	ctxlog.FromContext(ctx).Info("✅ All suites passed.", "path", path, "tests", agg.Tests)
	return nil
}

// clean removes every freshness marker, forcing a full recompile.
func (a *App) clean(ctx context.Context) error {
	stampDir := filepath.Join(a.config.BaseDir, filepath.FromSlash(a.layout().StampDir))
	if err := freshness.Clean(stampDir); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Freshness markers removed.", "path", stampDir)
	return nil
}
