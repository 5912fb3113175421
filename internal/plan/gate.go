package plan

// presentProperty is set once the aggregate results artifact exists.
func (b *builder) presentProperty() string {
	return b.layout.AggregateName + ".present"
}

// ExitGateMessage is the failure reported by the exit gate.
const ExitGateMessage = "Testsuites report errors or failures"

// aggregationGateTargets are the two mutually exclusive follow-ups of the
// fan-out: with an aggregate present, delete every per-run artifact except
// the aggregate; without one, keep everything and say so. Cleanup is best
// effort and never fails the build.
func (b *builder) aggregationGateTargets() []*Target {
	l := b.layout
	return []*Target{
		{
			Name: l.TargetRemoveArtifacts(),
			If:   b.presentProperty(),
			Actions: []Action{
				Delete{
					Fileset: &Fileset{
						Dir:     l.ResultsDir,
						Include: []string{"**/*"},
						Exclude: []string{"**/" + l.AggregateName},
					},
					FailOnError: false,
				},
			},
		},
		{
			Name:   l.TargetComplain(),
			Unless: b.presentProperty(),
			Actions: []Action{
				Echo{Message: l.AggregateName + " couldn't be build from artifacts, keeping artifacts"},
			},
		},
	}
}

// exitGateTarget fails the build unless the aggregate reports zero errors
// and zero failures. A missing or unreadable aggregate fails as well.
func (b *builder) exitGateTarget() *Target {
	return &Target{
		Name: b.layout.TargetExitGate(),
		Actions: []Action{
			ResultGate{File: b.layout.AggregatePath(), Message: ExitGateMessage},
		},
	}
}
