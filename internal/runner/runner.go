package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/specialistvlad/hdlplan/internal/ctxlog"
	"github.com/specialistvlad/hdlplan/internal/dag"
	"github.com/specialistvlad/hdlplan/internal/plan"
)

// Runner executes the targets of one plan below a base directory.
type Runner struct {
	plan     *plan.Plan
	baseDir  string
	commands CommandRunner
	stdout   io.Writer
	stderr   io.Writer
	observer func(target string)

	props properties
	graph *dag.Graph

	mu       sync.Mutex
	failures []*SimulationTaskFailure
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommandRunner replaces the os/exec based process runner.
func WithCommandRunner(c CommandRunner) Option {
	return func(r *Runner) { r.commands = c }
}

// WithProperties presets properties. Preset values win over the plan's own
// defaults, e.g. to point vsim-executable at a specific installation.
func WithProperties(props map[string]string) Option {
	return func(r *Runner) {
		for k, v := range props {
			r.props.set(k, v)
		}
	}
}

// WithOutput sets where commands without a redirection write.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) { r.stdout, r.stderr = stdout, stderr }
}

// WithTargetObserver registers a callback invoked when a target starts.
func WithTargetObserver(fn func(target string)) Option {
	return func(r *Runner) { r.observer = fn }
}

// New creates a runner for p. baseDir is the project base directory all
// plan paths are relative to.
func New(p *plan.Plan, baseDir string, opts ...Option) (*Runner, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	g, err := p.Graph()
	if err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	r := &Runner{
		plan:     p,
		baseDir:  abs,
		commands: ExecRunner{},
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		props:    properties{},
		graph:    g,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.props.set("basedir", filepath.ToSlash(abs))
	for _, prop := range p.Properties {
		r.props.set(prop.Name, prop.Value)
	}
	return r, nil
}

// TaskFailures returns the failed parallel tasks of the run so far.
func (r *Runner) TaskFailures() []*SimulationTaskFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*SimulationTaskFailure(nil), r.failures...)
}

// Run executes target and everything it depends on. The shared compiled
// library is guarded by an exclusive lock for the whole run.
func (r *Runner) Run(ctx context.Context, target string) error {
	logger := ctxlog.FromContext(ctx)

	order, err := r.graph.ExecutionOrder(target)
	if err != nil {
		return err
	}

	lockPath := r.abs(r.plan.Layout.SimulationDir + ".lock")
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("another run holds %s", lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release run lock.", "path", lockPath, "error", err)
		}
	}()

	logger.Info("🚀 Starting run.", "target", target, "targets", len(order))
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runTarget(ctx, name); err != nil {
			return err
		}
	}
	logger.Info("🏁 Run finished.", "target", target)
	return nil
}

// call runs a target and its dependencies afresh, the way antcall does.
func (r *Runner) call(ctx context.Context, target string) error {
	order, err := r.graph.ExecutionOrder(target)
	if err != nil {
		return err
	}
	for _, name := range order {
		if err := r.runTarget(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runTarget(ctx context.Context, name string) error {
	t, ok := r.plan.Target(name)
	if !ok {
		return fmt.Errorf("unknown target %q", name)
	}
	ctx = ctxlog.With(ctx, "target", name)
	logger := ctxlog.FromContext(ctx)

	if t.If != "" && !r.props.isSet(t.If) {
		logger.Debug("Target skipped, property not set.", "if", t.If)
		return nil
	}
	if t.Unless != "" && r.props.isSet(t.Unless) {
		logger.Debug("Target skipped, property set.", "unless", t.Unless)
		return nil
	}

	if r.observer != nil {
		r.observer(name)
	}
	logger.Debug("Target started.", "actions", len(t.Actions))

	for _, act := range t.Actions {
		if err := r.runAction(ctx, act); err != nil {
			var exitErr *commandError
			if t.Subject != "" && errors.As(err, &exitErr) {
				logger.Error("Compile failed.", "path", t.Subject, "error", err)
				return &CompileFailure{Path: t.Subject, Err: err}
			}
			return fmt.Errorf("target %q: %w", name, err)
		}
	}
	return nil
}

// abs resolves a plan path against the base directory.
func (r *Runner) abs(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.baseDir, p)
}
