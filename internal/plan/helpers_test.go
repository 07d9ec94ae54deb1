package plan

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/schema"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// testVar builds a scalar string variable in the given role and status.
func testVar(name string, ioType IOType, status VariableStatus) *Variable {
	v := NewVariable(name, schema.NewStringSchema(""), ioType, "")
	v.Status = status
	if status == VariableStatusReady {
		v.Value = name + "-value"
	}
	return v
}

// testArrayVar builds an array-of-string variable.
func testArrayVar(name string, ioType IOType) *Variable {
	return NewVariable(name, schema.NewStringSchema("").AsArray(), ioType, "")
}

// boundParam builds an input mapping wiring source into a required or
// optional tool parameter.
func boundParam(source types.ID, param string, required bool) Mapping {
	return Mapping{
		SourceID: source,
		Target:   NewParameterTarget(param, schema.NewStringSchema(""), required),
	}
}

// fixture is a two-stage workflow used across resolver and deriver tests:
//
//	workflow (input: goal)
//	  stage one (output: briefing)
//	    step A (output: notes)
//	    step B
//	  stage two
//	    step C (composite)
//	      sub C1 (output: draft)
//	      sub C2
type fixture struct {
	workflow *Workflow
	goal     *Variable
	briefing *Variable
	notes    *Variable
	draft    *Variable
	stepA    *Step
	stepB    *Step
	stepC    *Step
	subC1    *Step
	subC2    *Step
}

func newFixture() *fixture {
	f := &fixture{}

	f.goal = testVar("goal", IOTypeInput, VariableStatusReady)
	f.briefing = testVar("briefing", IOTypeOutput, VariableStatusReady)
	f.notes = testVar("notes", IOTypeOutput, VariableStatusReady)
	f.draft = testVar("draft", IOTypeOutput, VariableStatusPending)

	f.stepA = &Step{
		ID:     types.NewID(),
		Name:   "step A",
		Type:   StepTypeAtomic,
		ToolID: "summarize",
		State:  []*Variable{f.notes},
	}
	f.stepB = &Step{
		ID:     types.NewID(),
		Name:   "step B",
		Type:   StepTypeAtomic,
		ToolID: "summarize",
	}
	f.subC1 = &Step{
		ID:     types.NewID(),
		Name:   "sub C1",
		Type:   StepTypeAtomic,
		ToolID: "draft",
		State:  []*Variable{f.draft},
	}
	f.subC2 = &Step{
		ID:     types.NewID(),
		Name:   "sub C2",
		Type:   StepTypeAtomic,
		ToolID: "review",
	}
	f.stepC = &Step{
		ID:       types.NewID(),
		Name:     "step C",
		Type:     StepTypeComposite,
		Substeps: []*Step{f.subC1, f.subC2},
	}

	f.workflow = &Workflow{
		ID:    types.NewID(),
		Name:  "research",
		State: []*Variable{f.goal},
		Stages: []*Stage{
			{
				ID:    types.NewID(),
				Name:  "stage one",
				State: []*Variable{f.briefing},
				Steps: []*Step{f.stepA, f.stepB},
			},
			{
				ID:    types.NewID(),
				Name:  "stage two",
				Steps: []*Step{f.stepC},
			},
		},
	}

	return f
}

func (f *fixture) index() *Index {
	idx, err := BuildIndex(f.workflow)
	if err != nil {
		panic(err)
	}
	return idx
}

func variableIDs(vars []*Variable) []types.ID {
	ids := make([]types.ID, len(vars))
	for i, v := range vars {
		ids[i] = v.ID
	}
	return ids
}
