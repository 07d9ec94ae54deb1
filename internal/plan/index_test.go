package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

func TestBuildIndexNilWorkflow(t *testing.T) {
	_, err := BuildIndex(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(types.TREE_INVALID, ""))
}

func TestBuildIndexIndexesAllScopes(t *testing.T) {
	f := newFixture()
	idx := f.index()

	for _, id := range []types.ID{
		f.workflow.ID,
		f.workflow.Stages[0].ID,
		f.workflow.Stages[1].ID,
		f.stepA.ID, f.stepB.ID, f.stepC.ID, f.subC1.ID, f.subC2.ID,
	} {
		_, err := idx.Scope(id)
		assert.NoError(t, err, "scope %s should be indexed", id)
	}

	assert.Equal(t, f.goal, idx.Variable(f.goal.ID))
	assert.Equal(t, f.draft, idx.Variable(f.draft.ID))
	assert.Nil(t, idx.Variable(types.NewID()))
}

func TestBuildIndexDuplicateIDFailsFast(t *testing.T) {
	f := newFixture()
	f.stepB.ID = f.stepA.ID

	_, err := BuildIndex(f.workflow)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(types.TREE_INVALID, ""))
}

func TestBuildIndexCycleFailsFast(t *testing.T) {
	f := newFixture()
	// Reparent step C into its own subtree: C1 now claims C as a child.
	f.subC1.Type = StepTypeComposite
	f.subC1.ToolID = ""
	f.subC1.Substeps = []*Step{f.stepC}

	_, err := BuildIndex(f.workflow)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(types.TREE_CYCLE_DETECTED, ""))
}

func TestAncestorsRootDownOrder(t *testing.T) {
	f := newFixture()
	idx := f.index()

	chain, err := idx.Ancestors(f.subC2.ID)
	require.NoError(t, err)

	require.Len(t, chain, 3)
	assert.Equal(t, f.workflow.ID, chain[0].ID)
	assert.Equal(t, f.workflow.Stages[1].ID, chain[1].ID)
	assert.Equal(t, f.stepC.ID, chain[2].ID)
}

func TestAncestorsOfRootIsEmpty(t *testing.T) {
	f := newFixture()
	idx := f.index()

	chain, err := idx.Ancestors(f.workflow.ID)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestPriorSiblingsRespectExecutionOrder(t *testing.T) {
	f := newFixture()
	idx := f.index()

	priors, err := idx.PriorSiblings(f.stepB.ID)
	require.NoError(t, err)
	require.Len(t, priors, 1)
	assert.Equal(t, f.stepA.ID, priors[0].ID)

	priors, err = idx.PriorSiblings(f.stepA.ID)
	require.NoError(t, err)
	assert.Empty(t, priors)
}

func TestStepByID(t *testing.T) {
	f := newFixture()
	idx := f.index()

	step, err := idx.StepByID(f.stepC.ID)
	require.NoError(t, err)
	assert.Equal(t, f.stepC, step)

	// Stage scopes are not steps.
	_, err = idx.StepByID(f.workflow.Stages[0].ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(types.TREE_NODE_NOT_FOUND, ""))
}

func TestWorkflowCloneIsDeep(t *testing.T) {
	f := newFixture()
	clone := f.workflow.Clone()

	// Mutating the clone's variables must not leak into the original.
	cloneGoal := clone.Variable(f.goal.ID)
	require.NotNil(t, cloneGoal)
	cloneGoal.SetValue("changed")

	assert.Equal(t, "goal-value", f.goal.Value)
	assert.NotSame(t, f.workflow.Stages[0], clone.Stages[0])
	assert.NotSame(t, f.stepA, clone.Stages[0].Steps[0])
}
