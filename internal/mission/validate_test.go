package mission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliff-rosen/jam-bot-sub001/internal/plan"
	"github.com/cliff-rosen/jam-bot-sub001/internal/schema"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

func TestValidateMissionClean(t *testing.T) {
	registry := builtinRegistry(t)
	m, err := ParseMission([]byte(sampleDefinition), registry)
	require.NoError(t, err)

	assert.Empty(t, ValidateMission(m, registry))
	assert.NoError(t, Validate(m, registry))
}

func TestValidateMissionNil(t *testing.T) {
	issues := ValidateMission(nil, nil)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "nil")
}

func TestValidateMissionMissingPieces(t *testing.T) {
	issues := ValidateMission(&Mission{ID: types.NewID()}, nil)
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0].Message, "goal")
	assert.Contains(t, issues[1].Message, "workflow")
}

func TestValidateMissionCompositeTooSmall(t *testing.T) {
	const def = `
goal: g
workflow:
  name: w
  stages:
    - name: s
      steps:
        - name: lonely parent
          type: composite
          substeps:
            - name: only child
              tool: summarize
`
	m, err := ParseMission([]byte(def), nil)
	require.NoError(t, err)

	issues := ValidateMission(m, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, "lonely parent", issues[0].Node)
	assert.Contains(t, issues[0].Message, "at least two")
}

func TestValidateMissionUnknownTool(t *testing.T) {
	const def = `
goal: g
workflow:
  name: w
  stages:
    - name: s
      steps:
        - name: step
          tool: teleport
`
	registry := builtinRegistry(t)
	m, err := ParseMission([]byte(def), registry)
	require.NoError(t, err)

	issues := ValidateMission(m, registry)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, `"teleport"`)

	// without a registry the same mission passes
	assert.Empty(t, ValidateMission(m, nil))
}

func TestValidateMissionParameterSchemaMismatch(t *testing.T) {
	const def = `
goal: g
workflow:
  name: w
  state:
    - name: count
      io_type: input
      schema:
        type: number
  stages:
    - name: s
      steps:
        - name: step
          tool: web_search
          inputs:
            - source: count
              parameter: query
`
	registry := builtinRegistry(t)
	m, err := ParseMission([]byte(def), registry)
	require.NoError(t, err)

	issues := ValidateMission(m, registry)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, `"query"`)
	assert.Contains(t, issues[0].Message, `"count"`)

	err = Validate(m, registry)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.MISSION_VALIDATION_FAILED, "")))
}

func TestValidateMissionInvisibleSource(t *testing.T) {
	// built by hand: the loader refuses forward references, but a tree
	// edited in place can still wire a step to a later sibling's output
	workflowID := types.NewID()
	laterOutput := plan.NewVariable("later", schema.NewStringSchema(""), plan.IOTypeOutput, types.NewID())

	first := &plan.Step{
		ID:     types.NewID(),
		Name:   "first",
		Type:   plan.StepTypeAtomic,
		ToolID: "summarize",
		InputMappings: []plan.Mapping{
			{
				SourceID: laterOutput.ID,
				Target:   plan.NewParameterTarget("text", schema.NewStringSchema(""), true),
			},
		},
	}
	second := &plan.Step{
		ID:    types.NewID(),
		Name:  "second",
		Type:  plan.StepTypeAtomic,
		State: []*plan.Variable{laterOutput},
	}
	m := &Mission{
		ID:   types.NewID(),
		Goal: "g",
		Workflow: &plan.Workflow{
			ID:   workflowID,
			Name: "w",
			Stages: []*plan.Stage{
				{ID: types.NewID(), Name: "s", Steps: []*plan.Step{first, second}},
			},
		},
	}

	issues := ValidateMission(m, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, "first", issues[0].Node)
	assert.Contains(t, issues[0].Message, "not visible")
}

func TestValidateMissionDanglingOutputTarget(t *testing.T) {
	m := &Mission{
		ID:   types.NewID(),
		Goal: "g",
		Workflow: &plan.Workflow{
			ID:   types.NewID(),
			Name: "w",
			Stages: []*plan.Stage{
				{
					ID:   types.NewID(),
					Name: "s",
					OutputMappings: []plan.Mapping{
						{Operation: plan.OpAssign, Target: plan.NewVariableTarget(types.NewID())},
					},
					Steps: []*plan.Step{
						{ID: types.NewID(), Name: "step", Type: plan.StepTypeAtomic, ToolID: "summarize"},
					},
				},
			},
		},
	}

	issues := ValidateMission(m, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, "s", issues[0].Node)
	assert.Contains(t, issues[0].Message, "does not exist")
}

func TestValidateMissionBrokenTree(t *testing.T) {
	shared := &plan.Step{ID: types.NewID(), Name: "shared", Type: plan.StepTypeAtomic, ToolID: "summarize"}
	m := &Mission{
		ID:   types.NewID(),
		Goal: "g",
		Workflow: &plan.Workflow{
			ID:   types.NewID(),
			Name: "w",
			Stages: []*plan.Stage{
				{ID: types.NewID(), Name: "a", Steps: []*plan.Step{shared}},
				{ID: types.NewID(), Name: "b", Steps: []*plan.Step{shared}},
			},
		},
	}

	issues := ValidateMission(m, nil)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "reachable more than once")
}
