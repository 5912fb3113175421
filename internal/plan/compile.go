package plan

import (
	"path"

	"github.com/specialistvlad/hdlplan/internal/freshness"
	"github.com/specialistvlad/hdlplan/internal/model"
)

// BaseDirRef is the property reference for the project base directory.
const BaseDirRef = "${basedir}"

// optimizationLevel is passed to the compiler for every revision-tagged file.
const optimizationLevel = "-O0"

// fromBase makes a base-relative path absolute at execution time.
func fromBase(p string) string {
	return BaseDirRef + "/" + p
}

// CompileArgs returns the compiler arguments for a record: revision-tagged
// files get the optimization level and language revision flags, plain files
// only the file itself.
func CompileArgs(r model.SourceRecord) []string {
	var args []string
	if r.Kind == model.KindRevisionTagged {
		args = append(args, optimizationLevel, "-"+r.Revision)
	}
	return append(args, fromBase(r.Path))
}

// buildCompileSteps derives one gated compile step per record. ordered must
// already be in the resolved global order.
func buildCompileSteps(ordered []model.SourceRecord, l Layout) []CompileStep {
	steps := make([]CompileStep, 0, len(ordered))
	for _, r := range ordered {
		check := freshness.Check{
			Source: fromBase(r.Path),
			Marker: fromBase(path.Join(l.StampDir, freshness.MarkerName(r.Path))),
		}
		steps = append(steps, CompileStep{
			Record:       r,
			Target:       l.CompileTargetName(r.Path),
			SkipProperty: l.SkipPropertyName(r.Path),
			Check:        check,
			Action: Exec{
				Executable:  "${vcom-executable}",
				Dir:         l.WorkDir,
				Args:        CompileArgs(r),
				FailOnError: true,
			},
			PostAction: Touch{File: check.Marker},
		})
	}
	return steps
}

// compileTargets emits the aggregate compile target, the skip-property
// initialisation and one target per step.
func compileTargets(steps []CompileStep, l Layout) []*Target {
	depends := make([]string, 0, len(steps))
	for _, s := range steps {
		depends = append(depends, s.Target)
	}

	all := &Target{
		Name:        l.TargetCompile(),
		Description: "compile all",
		Depends:     depends,
	}

	initSkip := &Target{
		Name:    l.TargetInitSkip(),
		Actions: []Action{Mkdir{Dir: l.StampDir}},
	}
	for _, s := range steps {
		initSkip.Actions = append(initSkip.Actions, UpToDate{
			Src:      s.Check.Source,
			Target:   s.Check.Marker,
			Property: s.SkipProperty,
		})
	}

	targets := []*Target{all, initSkip}
	for _, s := range steps {
		targets = append(targets, &Target{
			Name:    s.Target,
			Depends: []string{l.TargetInitSkip()},
			Unless:  s.SkipProperty,
			Subject: s.Record.Path,
			Actions: []Action{s.Action, s.PostAction},
		})
	}
	return targets
}
