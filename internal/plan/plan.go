package plan

import (
	"fmt"
	"path"

	"github.com/specialistvlad/hdlplan/internal/freshness"
	"github.com/specialistvlad/hdlplan/internal/model"
)

// Property is a named value the plan's strings may reference as ${name}.
type Property struct {
	Name  string
	Value string
	// Comment is emitted next to the property by serializers that support it.
	Comment string
}

// Target is a named unit of the plan. Its dependencies run first, in order.
type Target struct {
	Name        string
	Description string
	Depends     []string
	// If and Unless name properties; the target only runs when If is set
	// (or empty) and Unless is not set (or empty).
	If     string
	Unless string
	// Subject is the source path a compile target builds, empty otherwise.
	Subject string
	Actions []Action
}

// CompileStep is the compile of one source record.
type CompileStep struct {
	Record model.SourceRecord
	// Target is the name of the compile target for Record.
	Target string
	// SkipProperty is set when Check holds, which skips Target.
	SkipProperty string
	Check        freshness.Check
	Action       Exec
	PostAction   Touch
}

// Plan is the root aggregate handed to serializers and the local runner. It
// is read-only once generated.
type Plan struct {
	Name       string
	Layout     Layout
	Properties []Property
	// Compile is the ordered compile phase.
	Compile []CompileStep
	// Suites are the expanded test-suite runs of the fan-out phase.
	Suites  []model.TestSuiteSpec
	Targets []*Target
}

// Target looks up a target by name.
func (p *Plan) Target(name string) (*Target, bool) {
	for _, t := range p.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Property returns the value of a declared property.
func (p *Plan) Property(name string) (string, bool) {
	for _, prop := range p.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// Layout fixes every path and name the generated plan uses. All paths are
// slash separated and relative to the project base directory.
type Layout struct {
	// Toolchain names the simulator flavour, e.g. "modelsim".
	Toolchain string
	// TargetPrefix is prepended to every target name.
	TargetPrefix  string
	SimulationDir string
	WorkDir       string
	// StampDir holds one freshness marker per compiled file.
	StampDir   string
	ResultsDir string
	// AggregateName is the file name of the aggregate results artifact
	// inside ResultsDir.
	AggregateName string
	// Threads is the width of the simulation fan-out.
	Threads int
}

// DefaultThreads is the fan-out width used when none is configured.
const DefaultThreads = 8

// DefaultLayout returns the layout used for a toolchain.
func DefaultLayout(toolchain string) Layout {
	sim := path.Join("simulation", toolchain)
	work := path.Join(sim, "work")
	return Layout{
		Toolchain:     toolchain,
		TargetPrefix:  toolchain + "-",
		SimulationDir: sim,
		WorkDir:       work,
		StampDir:      path.Join(work, "TimeStamps"),
		ResultsDir:    path.Join("simulation", "SimulationResults"),
		AggregateName: "testSuitesSimulation.xml",
		Threads:       DefaultThreads,
	}
}

// AggregatePath is the aggregate results artifact relative to the base directory.
func (l Layout) AggregatePath() string {
	return path.Join(l.ResultsDir, l.AggregateName)
}

func (l Layout) validate() error {
	switch {
	case l.Toolchain == "":
		return fmt.Errorf("layout: toolchain is required")
	case l.WorkDir == "" || l.StampDir == "" || l.ResultsDir == "":
		return fmt.Errorf("layout: work, stamp and results directories are required")
	case l.AggregateName == "":
		return fmt.Errorf("layout: aggregate name is required")
	case l.Threads < 1:
		return fmt.Errorf("layout: threads must be at least 1, got %d", l.Threads)
	}
	return nil
}

// target names shared by the builders.
func (l Layout) name(suffix string) string { return l.TargetPrefix + suffix }

// CompileTargetName is the deterministic, path-derived compile target name.
func (l Layout) CompileTargetName(sourcePath string) string {
	return "-do_compile_" + l.TargetPrefix + freshness.MarkerName(sourcePath)
}

// SkipPropertyName is the property that marks sourcePath as up to date.
func (l Layout) SkipPropertyName(sourcePath string) string {
	return l.TargetPrefix + freshness.MarkerName(sourcePath) + ".skip"
}

// Well-known target names.
func (l Layout) TargetAll() string { return l.name("all") }
func (l Layout) TargetAllGUI() string { return l.name("all-gui") }
func (l Layout) TargetPrepare() string { return l.name("prepare") }
func (l Layout) TargetClean() string { return l.name("clean") }
func (l Layout) TargetCompile() string { return l.name("compile") }
func (l Layout) TargetInitSkip() string { return l.name("init-skip-properties") }
func (l Layout) TargetSimulate() string { return l.name("simulate") }
func (l Layout) TargetSimulateGUI() string { return l.name("simulate-gui") }
func (l Layout) TargetSimulateSuites() string { return l.name("simulate-suites") }
func (l Layout) TargetRemoveArtifacts() string {
	return l.name("do-remove-junit-artifacts")
}
func (l Layout) TargetComplain() string { return l.name("complain-about-junit-artifacts") }
func (l Layout) TargetExitGate() string { return l.name("exit-on-junit-errors-or-failures") }
func (l Layout) TargetLab(lab string) string { return l.name("simulate-" + lab) }
func (l Layout) TargetLabGUI(lab string) string { return l.name("simulate-gui-" + lab) }
