package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/specialistvlad/hdlplan/internal/ctxlog"
	"github.com/specialistvlad/hdlplan/internal/freshness"
	"github.com/specialistvlad/hdlplan/internal/plan"
	"github.com/specialistvlad/hdlplan/internal/results"
)

// commandError is a failed external command.
type commandError struct {
	Command string
	Err     error
}

func (e *commandError) Error() string { return fmt.Sprintf("%s: %v", e.Command, e.Err) }
func (e *commandError) Unwrap() error { return e.Err }

func (r *Runner) runAction(ctx context.Context, act plan.Action) error {
	logger := ctxlog.FromContext(ctx)

	switch a := act.(type) {
	case plan.Exec:
		err := r.exec(ctx, a)
		if err != nil && !a.FailOnError {
			logger.Warn("Command failed, continuing.", "error", err)
			return nil
		}
		return err

	case plan.Mkdir:
		if err := os.MkdirAll(r.abs(r.props.expand(a.Dir)), 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return nil

	case plan.Delete:
		err := r.delete(ctx, a)
		if err != nil && !a.FailOnError {
			logger.Warn("Delete failed, continuing.", "error", err)
			return nil
		}
		return err

	case plan.Echo:
		return r.echo(ctx, a)

	case plan.Touch:
		return freshness.Touch(r.abs(r.props.expand(a.File)), time.Now())

	case plan.UpToDate:
		check := freshness.Check{
			Source: r.abs(r.props.expand(a.Src)),
			Marker: r.abs(r.props.expand(a.Target)),
		}
		fresh, err := check.Fresh()
		if err != nil {
			return err
		}
		if fresh {
			logger.Debug("Source is up to date.", "source", check.Source, "property", a.Property)
			r.props.set(a.Property, "true")
		}
		return nil

	case plan.Parallel:
		return r.parallel(ctx, a)

	case plan.Available:
		if _, err := os.Stat(r.abs(r.props.expand(a.File))); err == nil {
			r.props.set(a.Property, "true")
		}
		return nil

	case plan.Call:
		return r.call(ctx, a.Target)

	case plan.Aggregate:
		r.aggregate(ctx, a)
		return nil

	case plan.ResultGate:
		agg, err := results.Evaluate(r.abs(r.props.expand(a.File)))
		if agg != nil {
			if serr := results.Summary(r.stdout, agg); serr != nil {
				logger.Warn("Failed to print result summary.", "error", serr)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", a.Message, err)
		}
		logger.Info("✅ All suites passed.", "tests", agg.Tests)
		return nil

	default:
		return fmt.Errorf("unsupported action %T", act)
	}
}

// exec runs one command, redirecting its streams to files when asked.
func (r *Runner) exec(ctx context.Context, x plan.Exec) error {
	cmd := Command{
		Name:   r.props.expand(x.Executable),
		Args:   r.props.expandAll(x.Args),
		Dir:    r.baseDir,
		Stdout: r.stdout,
		Stderr: r.stderr,
	}
	if x.Dir != "" {
		cmd.Dir = r.abs(r.props.expand(x.Dir))
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	if x.Output != "" {
		f, err := createFile(r.abs(r.props.expand(x.Output)))
		if err != nil {
			return err
		}
		closers = append(closers, f)
		cmd.Stdout = f
	}
	if x.Error != "" {
		f, err := createFile(r.abs(r.props.expand(x.Error)))
		if err != nil {
			return err
		}
		closers = append(closers, f)
		cmd.Stderr = f
	}

	ctxlog.FromContext(ctx).Debug("Running command.", "command", cmd.Name, "args", cmd.Args, "dir", cmd.Dir)
	runErr := r.commands.Run(ctx, cmd)
	if x.Status != "" {
		if err := writeStatus(r.abs(r.props.expand(x.Status)), runErr); err != nil {
			return err
		}
	}
	if runErr != nil {
		return &commandError{Command: cmd.Name, Err: runErr}
	}
	return nil
}

// writeStatus records the outcome of a command for the result collector.
func writeStatus(path string, runErr error) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, ExitStatus(runErr)+"\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

func (r *Runner) echo(ctx context.Context, e plan.Echo) error {
	if e.File == "" {
		ctxlog.FromContext(ctx).Info(r.props.expand(e.Message))
		return nil
	}

	path := r.abs(r.props.expand(e.File))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if e.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := io.WriteString(f, r.props.expand(e.Text)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func (r *Runner) delete(ctx context.Context, d plan.Delete) error {
	if d.Fileset == nil {
		if err := os.RemoveAll(r.abs(r.props.expand(d.Dir))); err != nil {
			return fmt.Errorf("failed to delete %s: %w", d.Dir, err)
		}
		return nil
	}

	set := *d.Fileset
	set.Dir = r.abs(r.props.expand(set.Dir))
	removed, err := deleteFileset(set)
	ctxlog.FromContext(ctx).Debug("Fileset deleted.", "dir", set.Dir, "removed", removed)
	return err
}

// aggregate runs the in-process collector. A failure is logged and leaves
// the aggregate absent, which the follow-up targets report.
func (r *Runner) aggregate(ctx context.Context, a plan.Aggregate) {
	c := &results.Collector{
		ResultsDir: r.abs(r.props.expand(a.ResultsDir)),
		Output:     r.abs(r.props.expand(a.Output)),
		Name:       r.plan.Name,
	}
	if _, err := c.Collect(ctx, a.Suites); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to aggregate simulation results.", "error", err)
	}
}
