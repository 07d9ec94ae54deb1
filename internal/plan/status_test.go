package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

func TestDeriveStatusAtomicNoTool(t *testing.T) {
	f := newFixture()
	f.stepB.ToolID = ""
	idx := f.index()

	assert.Equal(t, StepStatusUnresolved, DeriveStatus(idx, f.stepB))
}

func TestDeriveStatusAtomicUnboundRequiredParameter(t *testing.T) {
	f := newFixture()
	f.stepB.InputMappings = []Mapping{boundParam("", "topic", true)}
	idx := f.index()

	assert.Equal(t, StepStatusUnresolved, DeriveStatus(idx, f.stepB))
}

func TestDeriveStatusAtomicRequiredSourceMissingFromTree(t *testing.T) {
	f := newFixture()
	f.stepB.InputMappings = []Mapping{boundParam(types.NewID(), "topic", true)}
	idx := f.index()

	assert.Equal(t, StepStatusUnresolved, DeriveStatus(idx, f.stepB))
}

func TestDeriveStatusAtomicInputNotReady(t *testing.T) {
	f := newFixture()
	pending := testVar("pending-input", IOTypeWIP, VariableStatusPending)
	f.stepB.State = []*Variable{pending}
	f.stepB.InputMappings = []Mapping{boundParam(pending.ID, "topic", true)}
	idx := f.index()

	assert.Equal(t, StepStatusPendingInputsReady, DeriveStatus(idx, f.stepB))
}

func TestDeriveStatusAtomicErroredInputHoldsStep(t *testing.T) {
	f := newFixture()
	errored := testVar("errored-input", IOTypeWIP, VariableStatusPending)
	errored.SetError("tool blew up")
	f.stepB.State = []*Variable{errored}
	f.stepB.InputMappings = []Mapping{boundParam(errored.ID, "topic", false)}
	idx := f.index()

	assert.Equal(t, StepStatusPendingInputsReady, DeriveStatus(idx, f.stepB))
}

func TestDeriveStatusAtomicReady(t *testing.T) {
	f := newFixture()
	f.stepB.InputMappings = []Mapping{boundParam(f.goal.ID, "topic", true)}
	idx := f.index()

	assert.Equal(t, StepStatusReady, DeriveStatus(idx, f.stepB))
}

func TestDeriveStatusPreservesExecutionReportedStatus(t *testing.T) {
	f := newFixture()
	f.stepB.InputMappings = []Mapping{boundParam(f.goal.ID, "topic", true)}
	idx := f.index()

	for _, stored := range []StepStatus{StepStatusInProgress, StepStatusCompleted, StepStatusFailed} {
		f.stepB.Status = stored
		assert.Equal(t, stored, DeriveStatus(idx, f.stepB),
			"execution-reported status must be returned unchanged")
	}
}

func TestDeriveStatusDowngradesWhenStructureRegresses(t *testing.T) {
	f := newFixture()
	f.stepB.Status = StepStatusCompleted
	f.stepB.ToolID = ""
	idx := f.index()

	// Removing the tool is a structural fact that downgrades the step,
	// regardless of what execution reported earlier.
	assert.Equal(t, StepStatusUnresolved, DeriveStatus(idx, f.stepB))
}

func TestDeriveStatusCompositeNeedsTwoChildren(t *testing.T) {
	f := newFixture()
	f.stepC.Substeps = f.stepC.Substeps[:1]
	idx := f.index()

	assert.Equal(t, StepStatusUnresolved, DeriveStatus(idx, f.stepC))
}

func TestDeriveStatusCompositeChildUnresolved(t *testing.T) {
	f := newFixture()
	f.subC2.ToolID = ""
	idx := f.index()

	assert.Equal(t, StepStatusUnresolved, DeriveStatus(idx, f.stepC))
}

func TestDeriveStatusCompositeChildNotReady(t *testing.T) {
	f := newFixture()
	pending := testVar("pending-input", IOTypeWIP, VariableStatusPending)
	f.subC2.State = []*Variable{pending}
	f.subC2.InputMappings = []Mapping{boundParam(pending.ID, "text", true)}
	idx := f.index()

	assert.Equal(t, StepStatusPendingInputsReady, DeriveStatus(idx, f.stepC))
}

func TestDeriveStatusCompositeAllChildrenReady(t *testing.T) {
	f := newFixture()
	idx := f.index()

	assert.Equal(t, StepStatusReady, DeriveStatus(idx, f.stepC))
}

func TestDeriveStatusParentNeverExceedsLeastAdvancedChild(t *testing.T) {
	f := newFixture()
	f.stepC.Status = StepStatusCompleted

	// A failed child holds the parent back even though execution reported
	// the parent complete.
	f.subC1.Status = StepStatusFailed
	idx := f.index()
	assert.Equal(t, StepStatusPendingInputsReady, DeriveStatus(idx, f.stepC))

	// An unresolved child pulls the parent all the way down.
	f.subC1.Status = ""
	f.subC1.ToolID = ""
	idx = f.index()
	assert.Equal(t, StepStatusUnresolved, DeriveStatus(idx, f.stepC))
}

func TestDeriveStatusCompositeStoredProgressPreserved(t *testing.T) {
	f := newFixture()
	f.stepC.Status = StepStatusInProgress
	f.subC1.Status = StepStatusCompleted
	f.subC2.Status = StepStatusInProgress
	idx := f.index()

	assert.Equal(t, StepStatusInProgress, DeriveStatus(idx, f.stepC))
}

func TestIsStepReady(t *testing.T) {
	f := newFixture()
	f.stepB.InputMappings = []Mapping{boundParam(f.goal.ID, "topic", true)}
	idx := f.index()

	assert.True(t, IsStepReady(idx, f.stepB))
	assert.True(t, IsStepReady(idx, f.stepC), "composite with two ready children is ready")

	f.stepB.InputMappings = []Mapping{boundParam("", "topic", true)}
	assert.False(t, IsStepReady(idx, f.stepB))

	f.subC2.ToolID = ""
	assert.False(t, IsStepReady(idx, f.stepC))
}
