package runner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/hdlplan/internal/ctxlog"
	"github.com/specialistvlad/hdlplan/internal/plan"
)

// parallel runs the group's tasks on at most group.Threads workers and waits
// for all of them. A failed task is recorded as a SimulationTaskFailure and
// does not affect its siblings. The group itself only fails when a task
// marked FailOnError failed, or when ctx is cancelled.
func (r *Runner) parallel(ctx context.Context, group plan.Parallel) error {
	logger := ctxlog.FromContext(ctx)

	workers := min(max(group.Threads, 1), len(group.Tasks))
	logger.Info("Starting parallel group.", "tasks", len(group.Tasks), "workers", workers)

	tasks := make(chan int)
	results := make([]error, len(group.Tasks))

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		workerID := w
		g.Go(func() error {
			wlogger := logger.With("workerID", workerID)
			wlogger.Debug("Worker started.")
			for i := range tasks {
				name := taskName(group, i)
				wlogger.Debug("Worker picked up task.", "task", name)
				if err := r.exec(ctx, group.Tasks[i]); err != nil {
					failure := &SimulationTaskFailure{Name: name, Err: err}
					wlogger.Error("Simulation task failed.", "task", name, "error", err)
					r.mu.Lock()
					r.failures = append(r.failures, failure)
					r.mu.Unlock()
					results[i] = failure
					continue
				}
				wlogger.Debug("Simulation task finished.", "task", name)
			}
			wlogger.Debug("Worker finished.")
			return nil
		})
	}

feed:
	for i := range group.Tasks {
		select {
		case tasks <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	// workers never return an error
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	var fatal error
	for i, err := range results {
		if err == nil {
			continue
		}
		failed++
		if fatal == nil && group.Tasks[i].FailOnError {
			fatal = err
		}
	}
	logger.Info("Parallel group finished.", "tasks", len(group.Tasks), "failed", failed)
	if fatal != nil {
		return fmt.Errorf("parallel group: %w", fatal)
	}
	return nil
}

func taskName(group plan.Parallel, i int) string {
	if i < len(group.Names) {
		return group.Names[i]
	}
	return fmt.Sprintf("task-%d", i)
}
