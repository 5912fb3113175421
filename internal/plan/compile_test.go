package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hdlplan/internal/model"
)

func TestCompileArgs(t *testing.T) {
	t.Run("revision tagged", func(t *testing.T) {
		args := CompileArgs(model.SourceRecord{Path: "src/a.vhd", Kind: model.KindRevisionTagged, Revision: "2008"})
		assert.Equal(t, []string{"-O0", "-2008", "${basedir}/src/a.vhd"}, args)
	})

	t.Run("plain", func(t *testing.T) {
		args := CompileArgs(model.SourceRecord{Path: "src/ram.v", Kind: model.KindPlain})
		assert.Equal(t, []string{"${basedir}/src/ram.v"}, args)
	})
}

func TestCompileSteps_FollowResolvedOrder(t *testing.T) {
	p := generate(t, scenarioManifest())

	require.Len(t, p.Compile, 3)
	assert.Equal(t, "src/vhdl/tb_base_pkg.vhd", p.Compile[0].Record.Path)
	assert.Equal(t, "src/verilog/ram.v", p.Compile[1].Record.Path)
	assert.Equal(t, "tb/hdl/tbTop.vhd", p.Compile[2].Record.Path)

	compile := mustTarget(t, p, "modelsim-compile")
	assert.Equal(t, []string{
		"-do_compile_modelsim-src_vhdl_tb_base_pkg.vhd",
		"-do_compile_modelsim-src_verilog_ram.v",
		"-do_compile_modelsim-tb_hdl_tbTop.vhd",
	}, compile.Depends)
}

func TestCompileSteps_AreGatedAndStamped(t *testing.T) {
	p := generate(t, scenarioManifest())

	for _, step := range p.Compile {
		target := mustTarget(t, p, step.Target)
		assert.Equal(t, []string{"modelsim-init-skip-properties"}, target.Depends)
		assert.Equal(t, step.SkipProperty, target.Unless)
		assert.Equal(t, step.Record.Path, target.Subject)

		require.Len(t, target.Actions, 2)
		exec, ok := target.Actions[0].(Exec)
		require.True(t, ok)
		assert.Equal(t, "${vcom-executable}", exec.Executable)
		assert.Equal(t, "simulation/modelsim/work", exec.Dir)
		assert.True(t, exec.FailOnError, "compile failures are fatal")

		touch, ok := target.Actions[1].(Touch)
		require.True(t, ok)
		assert.Equal(t, step.Check.Marker, touch.File)
	}

	base := p.Compile[0]
	assert.Equal(t, "modelsim-src_vhdl_tb_base_pkg.vhd.skip", base.SkipProperty)
	assert.Equal(t, "${basedir}/src/vhdl/tb_base_pkg.vhd", base.Check.Source)
	assert.Equal(t, "${basedir}/simulation/modelsim/work/TimeStamps/src_vhdl_tb_base_pkg.vhd", base.Check.Marker)
}

func TestInitSkipProperties(t *testing.T) {
	p := generate(t, scenarioManifest())
	initSkip := mustTarget(t, p, "modelsim-init-skip-properties")

	require.Len(t, initSkip.Actions, 1+len(p.Compile))
	assert.Equal(t, Mkdir{Dir: "simulation/modelsim/work/TimeStamps"}, initSkip.Actions[0])
	for i, step := range p.Compile {
		assert.Equal(t, UpToDate{
			Src:      step.Check.Source,
			Target:   step.Check.Marker,
			Property: step.SkipProperty,
		}, initSkip.Actions[i+1])
	}
}

func TestCompileTargetName_IsPathDerived(t *testing.T) {
	l := DefaultLayout("modelsim")
	assert.Equal(t, l.CompileTargetName("src/a.vhd"), l.CompileTargetName("./src/a.vhd"))
	assert.NotEqual(t, l.CompileTargetName("src/a.vhd"), l.CompileTargetName("src/b.vhd"))
}
