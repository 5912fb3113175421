package plan

import (
	"fmt"

	"github.com/specialistvlad/hdlplan/internal/dag"
)

// Graph returns the dependency graph of the plan's targets. It fails on
// duplicate names, dangling depends entries and calls to unknown targets.
func (p *Plan) Graph() (*dag.Graph, error) {
	g := dag.New()
	for _, t := range p.Targets {
		if g.Has(t.Name) {
			return nil, fmt.Errorf("duplicate target %q", t.Name)
		}
		g.AddNode(t.Name)
	}

	for _, t := range p.Targets {
		for _, dep := range t.Depends {
			if err := g.AddEdge(dep, t.Name); err != nil {
				return nil, fmt.Errorf("target %q depends on %q: %w", t.Name, dep, err)
			}
		}
		for _, a := range t.Actions {
			if call, ok := a.(Call); ok && !g.Has(call.Target) {
				return nil, fmt.Errorf("target %q calls unknown target %q", t.Name, call.Target)
			}
		}
	}
	return g, nil
}

// Validate checks that target names are unique, every reference resolves
// and the dependency graph is acyclic.
func (p *Plan) Validate() error {
	g, err := p.Graph()
	if err != nil {
		return err
	}
	return g.DetectCycles()
}
