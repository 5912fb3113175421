package emit

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hdlplan/internal/model"
	"github.com/specialistvlad/hdlplan/internal/plan"
)

func samplePlan(t *testing.T) *plan.Plan {
	t.Helper()
	m := &model.Manifest{
		Project: model.Project{Name: "simstm", TBTopEntity: "tbTop"},
		Sources: []model.SourceRecord{
			{Path: "src/a.vhd", Kind: model.KindRevisionTagged, Revision: "2008", Order: "010"},
			{Path: "src/b.v", Kind: model.KindPlain, Order: "020"},
		},
		Suites: []model.SuiteDecl{
			{Name: "basic", EntryFile: "basic.stm", EntryLabel: "$basic", Indexes: 2},
		},
	}
	p, err := plan.Generate(m, plan.DefaultLayout("modelsim"))
	require.NoError(t, err)
	return p
}

func TestForFormat(t *testing.T) {
	e, err := ForFormat("ant")
	require.NoError(t, err)
	assert.IsType(t, &Ant{}, e)

	e, err = ForFormat("HCL")
	require.NoError(t, err)
	assert.IsType(t, &HCL{}, e)

	_, err = ForFormat("make")
	assert.ErrorContains(t, err, "unknown format")
	assert.False(t, IsFormat("make"))
	assert.True(t, IsFormat("ant"))
}

type antAttrTarget struct {
	Name    string `xml:"name,attr"`
	Depends string `xml:"depends,attr"`
	If      string `xml:"if,attr"`
	Unless  string `xml:"unless,attr"`
}

type antDoc struct {
	XMLName    xml.Name `xml:"project"`
	Default    string   `xml:"default,attr"`
	Properties []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value,attr"`
	} `xml:"property"`
	Targets []antAttrTarget `xml:"target"`
}

func TestAnt_Emit(t *testing.T) {
	p := samplePlan(t)

	var buf bytes.Buffer
	require.NoError(t, (&Ant{}).Emit(&buf, p))
	out := buf.String()

	var doc antDoc
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "modelsim-all", doc.Default)
	require.Len(t, doc.Targets, len(p.Targets))
	for i, target := range p.Targets {
		assert.Equal(t, target.Name, doc.Targets[i].Name)
		assert.Equal(t, strings.Join(target.Depends, ", "), doc.Targets[i].Depends)
		assert.Equal(t, target.If, doc.Targets[i].If)
		assert.Equal(t, target.Unless, doc.Targets[i].Unless)
	}
	assert.Equal(t, "vcom-executable", doc.Properties[2].Name)

	assert.Contains(t, out, `<parallel threadCount="8">`)
	assert.Contains(t, out, `<redirector output="simulation/SimulationResults/basic_0.out" error="simulation/SimulationResults/basic_0.err" alwayslog="true">`)
	assert.Contains(t, out, `<redirector output="simulation/SimulationResults/basic_1.out" error="simulation/SimulationResults/basic_1.err" alwayslog="true">`)
	assert.Contains(t, out, `<exec executable="${vsim-executable}" dir="simulation/modelsim/work" resultproperty="simulation/SimulationResults/basic_0.rc" failifexecutionfails="false">`)
	assert.Contains(t, out, `<echo file="simulation/SimulationResults/basic_0.rc" message="${simulation/SimulationResults/basic_0.rc}">`)
	assert.Equal(t, 2, strings.Count(out, "<sequential>"), "one sequential per suite run")
	assert.Contains(t, out, `<uptodate srcfile="${basedir}/src/a.vhd" targetfile="${basedir}/simulation/modelsim/work/TimeStamps/src_a.vhd" property="modelsim-src_a.vhd.skip">`)
	assert.Contains(t, out, `<arg value="-2008">`)
	assert.Contains(t, out, `<exec executable="${vcom-executable}" dir="simulation/modelsim/work" failonerror="true">`)
	assert.Contains(t, out, `<delete failonerror="false" includeemptydirs="true">`)
	assert.Contains(t, out, `<exclude name="**/testSuitesSimulation.xml">`)
	assert.Contains(t, out, `<arg value="collect">`)
	assert.Contains(t, out, `<xmlproperty file="simulation/SimulationResults/testSuitesSimulation.xml" keepRoot="true">`)
	assert.Contains(t, out, `<fail unless="no-errors-or-failures" message="Testsuites report errors or failures">`)
	assert.Contains(t, out, `<echo file="simulation/modelsim/work/run_all.do" append="false">run -all</echo>`)
	assert.Contains(t, out, "<!-- may be overridden in main build script -->")
}

func TestHCL_Emit(t *testing.T) {
	p := samplePlan(t)

	var buf bytes.Buffer
	require.NoError(t, (&HCL{}).Emit(&buf, p))

	file, diags := hclparse.NewParser().ParseHCL(buf.Bytes(), "plan.hcl")
	require.False(t, diags.HasErrors(), diags.Error())

	body := file.Body.(*hclsyntax.Body)
	var targets []*hclsyntax.Block
	for _, b := range body.Blocks {
		if b.Type == "target" {
			targets = append(targets, b)
		}
	}
	require.Len(t, targets, len(p.Targets))
	assert.Equal(t, p.Targets[0].Name, targets[0].Labels[0])

	suites, ok := p.Target("modelsim-simulate-suites")
	require.True(t, ok)
	var suitesBlock *hclsyntax.Block
	for _, b := range targets {
		if b.Labels[0] == suites.Name {
			suitesBlock = b
		}
	}
	require.NotNil(t, suitesBlock)

	var tasks []string
	for _, a := range suitesBlock.Body.Blocks {
		if a.Type == "action" && a.Labels[0] == "parallel" {
			for _, task := range a.Body.Blocks {
				tasks = append(tasks, task.Labels[0])
				exe, diags := task.Body.Attributes["executable"].Expr.Value(nil)
				require.False(t, diags.HasErrors())
				assert.Equal(t, "${vsim-executable}", exe.AsString(), "property references survive as literal text")
				status, diags := task.Body.Attributes["status"].Expr.Value(nil)
				require.False(t, diags.HasErrors())
				assert.Equal(t, "simulation/SimulationResults/"+task.Labels[0]+".rc", status.AsString())
			}
		}
	}
	assert.Equal(t, []string{"basic_0", "basic_1"}, tasks)
	assert.Contains(t, buf.String(), "# may be overridden in main build script")
}
