package engine

// Step is one of the named nodes the catalog knows about.
type Step int

const (
	StepForceQuit Step = iota + 1
	StepFatalError
	StepDefaultConfig
	StepApplyConfig
	StepExitOnIterations
	StepExtractATR
	StepDeleteUTF8
	StepWriteUTF8
	StepAutoCommit
	StepConditionalCommit
	StepPreCommit
	StepCommit
	StepPostCommit
	StepRunOnceExit
	StepWait
)

var stepNames = map[Step]string{
	StepForceQuit:         "ForceQuit",
	StepFatalError:        "FatalError",
	StepDefaultConfig:     "DefaultConfig",
	StepApplyConfig:       "ApplyConfig",
	StepExitOnIterations:  "ExitOnIterations",
	StepExtractATR:        "ExtractATR",
	StepDeleteUTF8:        "DeleteUTF8",
	StepWriteUTF8:         "WriteUTF8",
	StepAutoCommit:        "AutoCommit",
	StepConditionalCommit: "ConditionalCommit",
	StepPreCommit:         "PreCommit",
	StepCommit:            "Commit",
	StepPostCommit:        "PostCommit",
	StepRunOnceExit:       "RunOnceExit",
	StepWait:              "Wait",
}

var stepsByName = func() map[string]Step {
	m := make(map[string]Step, len(stepNames))
	for s, name := range stepNames {
		m[name] = s
	}
	return m
}()

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseStep returns the step with the given node name.
func ParseStep(name string) (Step, bool) {
	s, ok := stepsByName[name]
	return s, ok
}

// Steps returns every step in declaration order.
func Steps() []Step {
	out := make([]Step, 0, len(stepNames))
	for s := StepForceQuit; s <= StepWait; s++ {
		out = append(out, s)
	}
	return out
}
