package runner

import "fmt"

// CompileFailure aborts a run when a source file fails to compile.
type CompileFailure struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CompileFailure) Error() string {
	return fmt.Sprintf("compile of %s failed: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CompileFailure) Unwrap() error { return e.Err }

// SimulationTaskFailure records one failed task of a parallel group. It is
// logged and kept, but never stops the other tasks.
type SimulationTaskFailure struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *SimulationTaskFailure) Error() string {
	return fmt.Sprintf("simulation task %s failed: %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SimulationTaskFailure) Unwrap() error { return e.Err }
