package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hdlplan/internal/model"
)

func TestGenerate_Scenario(t *testing.T) {
	p := generate(t, scenarioManifest())

	assert.Equal(t, "simstm", p.Name)
	require.Len(t, p.Suites, 2)
	assert.Equal(t, "testSuiteBasic_0", p.Suites[0].Name)
	assert.Equal(t, "testSuiteBasic_1", p.Suites[1].Name)

	all := mustTarget(t, p, "modelsim-all")
	assert.Equal(t, []string{
		"modelsim-clean",
		"modelsim-prepare",
		"modelsim-compile",
		"modelsim-simulate-suites",
		"modelsim-exit-on-junit-errors-or-failures",
	}, all.Depends)

	// compile must finish before any suite starts
	g, err := p.Graph()
	require.NoError(t, err)
	order, err := g.ExecutionOrder("modelsim-all")
	require.NoError(t, err)
	assert.Less(t, indexOf(order, "-do_compile_modelsim-tb_hdl_tbTop.vhd"), indexOf(order, "modelsim-simulate-suites"))

	vcom, ok := p.Property("vcom-executable")
	assert.True(t, ok)
	assert.Equal(t, "vcom", vcom)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestGenerate_ConfigurationErrors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(m *model.Manifest)
	}{
		{"duplicate order key", func(m *model.Manifest) { m.Sources[1].Order = "30" }},
		{"duplicate suite run", func(m *model.Manifest) {
			m.Suites = append(m.Suites, model.SuiteDecl{Name: "testSuiteBasic_0", EntryFile: "x.stm", EntryLabel: "$x"})
		}},
		{"missing tb top", func(m *model.Manifest) { m.Project.TBTopEntity = "" }},
		{"sources sharing a marker", func(m *model.Manifest) {
			m.Sources = append(m.Sources,
				model.SourceRecord{Path: "a/b_c.vhd", Kind: model.KindPlain, Order: "040"},
				model.SourceRecord{Path: "a_b/c.vhd", Kind: model.KindPlain, Order: "050"},
			)
		}},
		{"source listed twice", func(m *model.Manifest) {
			dup := m.Sources[0]
			dup.Order = "040"
			m.Sources = append(m.Sources, dup)
		}},
		{"lab named suites", func(m *model.Manifest) { m.Labs[0].Name = "suites" }},
		{"lab shadowing an interactive target", func(m *model.Manifest) {
			m.Labs = append(m.Labs, model.TestLabSpec{Name: "gui-testLabAbort", EntryFile: "x.stm", EntryLabel: "$x"})
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := scenarioManifest()
			tc.mutate(m)
			_, err := Generate(m, DefaultLayout("modelsim"))
			var cfgErr *model.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestGenerate_WithoutSuites(t *testing.T) {
	m := scenarioManifest()
	m.Suites = nil
	p := generate(t, m)

	_, ok := p.Target("modelsim-simulate-suites")
	assert.False(t, ok)
	_, ok = p.Target("modelsim-exit-on-junit-errors-or-failures")
	assert.False(t, ok)
	assert.Equal(t, []string{"modelsim-clean", "modelsim-prepare", "modelsim-compile"}, mustTarget(t, p, "modelsim-all").Depends)
}

func TestGenerate_InvalidLayout(t *testing.T) {
	l := DefaultLayout("modelsim")
	l.Threads = 0
	_, err := Generate(scenarioManifest(), l)
	assert.ErrorContains(t, err, "threads")
}

func TestPlanValidate(t *testing.T) {
	t.Run("dangling dependency", func(t *testing.T) {
		p := &Plan{Targets: []*Target{{Name: "a", Depends: []string{"missing"}}}}
		assert.ErrorContains(t, p.Validate(), "missing")
	})

	t.Run("unknown call", func(t *testing.T) {
		p := &Plan{Targets: []*Target{{Name: "a", Actions: []Action{Call{Target: "b"}}}}}
		assert.ErrorContains(t, p.Validate(), "unknown target")
	})

	t.Run("duplicate target", func(t *testing.T) {
		p := &Plan{Targets: []*Target{{Name: "a"}, {Name: "a"}}}
		assert.ErrorContains(t, p.Validate(), "duplicate target")
	})

	t.Run("cycle", func(t *testing.T) {
		p := &Plan{Targets: []*Target{
			{Name: "a", Depends: []string{"b"}},
			{Name: "b", Depends: []string{"a"}},
		}}
		assert.ErrorContains(t, p.Validate(), "cycle detected")
	})
}
