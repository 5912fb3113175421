package plan

import (
	"path"
	"strconv"

	"github.com/specialistvlad/hdlplan/internal/model"
)

const (
	startedText = "STARTED"
	endedText   = "ENDED"
	runScript   = "run_all.do"
)

// stimulus holds the simulation generics of one run.
type stimulus struct {
	entryFile  string
	entryLabel string
	index      *int
}

// vsimArgs builds the simulator arguments. Every run selects the shared,
// already compiled testbench top-level entity; only the generics differ.
func (b *builder) vsimArgs(st *stimulus, gui bool) []string {
	args := []string{"-t", "ps"}
	if gui && st == nil {
		args = append(args, "-voptargs=+acc")
	}
	args = append(args, "-L", "work", "work."+b.project.TBTopEntity)
	if !gui {
		args = append(args, "-batch")
	}
	args = append(args, "-gstimulus_path="+fromBase(b.stimulusPath()))
	if st != nil {
		args = append(args,
			"-gstimulus_file="+st.entryFile,
			"-gstimulus_main_entry_label="+st.entryLabel,
		)
		if st.index != nil {
			args = append(args, "-gstimulus_test_suite_index="+strconv.Itoa(*st.index))
		}
	}
	if gui {
		return append(args, "-i")
	}
	return append(args, "-do", runScript)
}

func (b *builder) stimulusPath() string {
	p := b.project.StimulusPath
	if p == "" {
		p = model.DefaultStimulusPath
	}
	// keep the trailing slash, the simulator concatenates file names onto it
	return path.Clean(p) + "/"
}

func (b *builder) vsim(st *stimulus, gui bool) Exec {
	return Exec{
		Executable: "${vsim-executable}",
		Dir:        b.layout.WorkDir,
		Args:       b.vsimArgs(st, gui),
	}
}

func (b *builder) runScriptEcho() Echo {
	return Echo{File: path.Join(b.layout.WorkDir, runScript), Text: "run -all"}
}

// SuiteOutput, SuiteError and SuiteStatus are the per-suite capture files.
func (l Layout) SuiteOutput(name string) string { return path.Join(l.ResultsDir, name+".out") }
func (l Layout) SuiteError(name string) string { return path.Join(l.ResultsDir, name+".err") }
func (l Layout) SuiteStatus(name string) string { return path.Join(l.ResultsDir, name+".rc") }

// suiteInvocation is the simulator invocation for one expanded suite run,
// captured to its own output, error and exit status files.
func (b *builder) suiteInvocation(s model.TestSuiteSpec) Exec {
	ex := b.vsim(&stimulus{entryFile: s.EntryFile, entryLabel: s.EntryLabel, index: s.RunIndex}, false)
	ex.Output = b.layout.SuiteOutput(s.Name)
	ex.Error = b.layout.SuiteError(s.Name)
	ex.Status = b.layout.SuiteStatus(s.Name)
	return ex
}

// fanOut builds the parallel group for all suite runs.
func (b *builder) fanOut(suites []model.TestSuiteSpec) Parallel {
	group := Parallel{
		Threads: b.layout.Threads,
		Tasks:   make([]Exec, 0, len(suites)),
		Names:   make([]string, 0, len(suites)),
	}
	for _, s := range suites {
		group.Tasks = append(group.Tasks, b.suiteInvocation(s))
		group.Names = append(group.Names, s.Name)
	}
	return group
}

// suitesTarget runs every suite in parallel and hands the results to the
// aggregation gate.
func (b *builder) suitesTarget(suites []model.TestSuiteSpec) *Target {
	l := b.layout
	group := b.fanOut(suites)
	return &Target{
		Name:        l.TargetSimulateSuites(),
		Description: "simulate all suites parallel",
		Actions: []Action{
			Delete{Dir: l.ResultsDir, FailOnError: true},
			Mkdir{Dir: l.ResultsDir},
			Echo{File: path.Join(l.ResultsDir, "testSuitesSimulation.start"), Text: startedText},
			b.runScriptEcho(),
			group,
			Echo{File: path.Join(l.ResultsDir, "testSuitesSimulation.end"), Text: endedText},
			Aggregate{ResultsDir: l.ResultsDir, Output: l.AggregatePath(), Suites: group.Names},
			Available{File: l.AggregatePath(), Property: b.presentProperty()},
			Call{Target: l.TargetRemoveArtifacts()},
			Call{Target: l.TargetComplain()},
		},
	}
}

// simulateTargets are the plain batch and interactive runs of the testbench.
func (b *builder) simulateTargets() []*Target {
	l := b.layout
	started := Echo{File: path.Join(l.WorkDir, "simulation.started"), Text: startedText}
	ended := Echo{File: path.Join(l.WorkDir, "simulation.ended"), Text: endedText}

	return []*Target{
		{
			Name:        l.TargetSimulate(),
			Description: "simulate",
			Actions: []Action{
				Delete{Dir: l.ResultsDir, FailOnError: true},
				Mkdir{Dir: l.ResultsDir},
				started,
				b.runScriptEcho(),
				b.vsim(nil, false),
				ended,
			},
		},
		{
			Name:        l.TargetSimulateGUI(),
			Description: "simulate start gui",
			Actions: []Action{
				Delete{Dir: l.ResultsDir, FailOnError: true},
				Mkdir{Dir: l.ResultsDir},
				b.vsim(nil, true),
			},
		},
	}
}

// labTargets emits a batch and an interactive target per lab. Labs run
// singly and never feed the aggregation gate.
func (b *builder) labTargets(labs []model.TestLabSpec) []*Target {
	l := b.layout
	started := Echo{File: path.Join(l.WorkDir, "simulation.started"), Text: startedText}
	ended := Echo{File: path.Join(l.WorkDir, "simulation.ended"), Text: endedText}

	var targets []*Target
	for _, lab := range labs {
		st := &stimulus{entryFile: lab.EntryFile, entryLabel: lab.EntryLabel}
		targets = append(targets,
			&Target{
				Name:        l.TargetLab(lab.Name),
				Description: "run simulation",
				Actions: []Action{
					Delete{Dir: l.ResultsDir, FailOnError: true},
					started,
					b.runScriptEcho(),
					b.vsim(st, false),
					ended,
				},
			},
			&Target{
				Name:        l.TargetLabGUI(lab.Name),
				Description: "simulate and write trace.vcd",
				Actions: []Action{
					Delete{Dir: l.ResultsDir, FailOnError: true},
					started,
					b.runScriptEcho(),
					b.vsim(st, true),
					ended,
				},
			},
		)
	}
	return targets
}
