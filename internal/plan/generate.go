package plan

import (
	"fmt"
	"path"

	"github.com/specialistvlad/hdlplan/internal/model"
	"github.com/specialistvlad/hdlplan/internal/order"
)

// builder carries what every target builder needs.
type builder struct {
	project model.Project
	layout  Layout
}

// Generate builds the complete plan for a manifest. Configuration problems
// (missing fields, duplicate order keys, duplicate suite runs) are returned
// as *model.ConfigurationError before anything else happens.
func Generate(m *model.Manifest, l Layout) (*Plan, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := l.validate(); err != nil {
		return nil, err
	}

	ordered, err := order.Resolve(m.Sources)
	if err != nil {
		return nil, err
	}
	suites, err := model.ExpandSuites(m.Suites)
	if err != nil {
		return nil, err
	}

	b := &builder{project: m.Project, layout: l}
	steps := buildCompileSteps(ordered, l)

	p := &Plan{
		Name:       m.Project.Name,
		Layout:     l,
		Properties: b.properties(),
		Compile:    steps,
		Suites:     suites,
	}

	p.Targets = append(p.Targets, b.prepareTarget(), b.cleanTarget())
	p.Targets = append(p.Targets, b.allTargets(len(suites) > 0)...)

	compile := compileTargets(steps, l)
	// the aggregate compile target leads, per-file targets close the plan
	p.Targets = append(p.Targets, compile[0])
	p.Targets = append(p.Targets, b.simulateTargets()...)
	if len(suites) > 0 {
		p.Targets = append(p.Targets, b.suitesTarget(suites))
		p.Targets = append(p.Targets, b.aggregationGateTargets()...)
	}
	p.Targets = append(p.Targets, b.labTargets(m.Labs)...)
	p.Targets = append(p.Targets, compile[1:]...)
	if len(suites) > 0 {
		p.Targets = append(p.Targets, b.exitGateTarget())
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("generated plan is inconsistent: %w", err)
	}
	return p, nil
}

func (b *builder) properties() []Property {
	return []Property{
		{Name: "vlib-executable", Value: "vlib", Comment: "may be overridden in main build script"},
		{Name: "vmap-executable", Value: "vmap"},
		{Name: "vcom-executable", Value: "vcom"},
		{Name: "vsim-executable", Value: "vsim"},
		{Name: "hdlplan-executable", Value: "hdlplan"},
	}
}

// prepareTarget creates the work library and maps it under both names the
// testbench sources use.
func (b *builder) prepareTarget() *Target {
	l := b.layout
	lib := fromBase(path.Join(l.WorkDir, "work"))
	return &Target{
		Name:        l.TargetPrepare(),
		Description: "make work folder",
		Actions: []Action{
			Mkdir{Dir: l.WorkDir},
			Exec{Executable: "${vlib-executable}", Dir: l.WorkDir, Args: []string{lib}, FailOnError: true},
			Exec{Executable: "${vmap-executable}", Dir: l.WorkDir, Args: []string{"work", lib}, FailOnError: true},
			Exec{Executable: "${vmap-executable}", Dir: l.WorkDir, Args: []string{"work_lib", lib}, FailOnError: true},
		},
	}
}

// cleanTarget removes the work library and every freshness marker.
func (b *builder) cleanTarget() *Target {
	l := b.layout
	return &Target{
		Name:        l.TargetClean(),
		Description: "delete work folder",
		Actions: []Action{
			Delete{Dir: l.WorkDir, FailOnError: true},
			Delete{Dir: l.StampDir, FailOnError: true},
		},
	}
}

func (b *builder) allTargets(withSuites bool) []*Target {
	l := b.layout
	depends := []string{l.TargetClean(), l.TargetPrepare(), l.TargetCompile()}
	if withSuites {
		depends = append(depends, l.TargetSimulateSuites(), l.TargetExitGate())
	}
	return []*Target{
		{
			Name:        l.TargetAll(),
			Description: "all from scratch until the suites are gated",
			Depends:     depends,
		},
		{
			Name:        l.TargetAllGUI(),
			Description: "all from scratch until interactive simulation",
			Depends:     []string{l.TargetClean(), l.TargetPrepare(), l.TargetCompile(), l.TargetSimulateGUI()},
		},
	}
}
