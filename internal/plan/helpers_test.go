package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hdlplan/internal/model"
)

// scenarioManifest is three ordered sources and one suite repeated twice.
func scenarioManifest() *model.Manifest {
	return &model.Manifest{
		Project: model.Project{
			Name:        "simstm",
			TopEntity:   "tb_simstm",
			TBTopEntity: "tbTop",
		},
		Sources: []model.SourceRecord{
			{Path: "tb/hdl/tbTop.vhd", Kind: model.KindRevisionTagged, Revision: "2008", Order: "030", Origin: model.OriginTestbench},
			{Path: "src/vhdl/tb_base_pkg.vhd", Kind: model.KindRevisionTagged, Revision: "2008", Order: "010"},
			{Path: "src/verilog/ram.v", Kind: model.KindPlain, Order: "020"},
		},
		Suites: []model.SuiteDecl{
			{Name: "testSuiteBasic", File: "TestSuites/TestSuiteBasic.stm", EntryFile: "testMainSuiteBasic.stm", EntryLabel: "$testMainSuiteBasic", Indexes: 2},
		},
		Labs: []model.TestLabSpec{
			{Name: "testLabAbort", File: "TestLabs/TestLabBasicAbort.stm", EntryFile: "testMainLabBasicAbort.stm", EntryLabel: "$testMainLabBasicAbort"},
		},
	}
}

func generate(t *testing.T, m *model.Manifest) *Plan {
	t.Helper()
	p, err := Generate(m, DefaultLayout("modelsim"))
	require.NoError(t, err)
	return p
}

func mustTarget(t *testing.T, p *Plan, name string) *Target {
	t.Helper()
	target, ok := p.Target(name)
	require.True(t, ok, "target %q not found", name)
	return target
}
