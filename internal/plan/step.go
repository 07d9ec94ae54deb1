package plan

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// StepType discriminates leaf steps (which run a tool) from composite
// steps (which decompose into sub-steps).
type StepType string

const (
	StepTypeAtomic    StepType = "atomic"
	StepTypeComposite StepType = "composite"
)

// String returns the string representation of the step type.
func (t StepType) String() string {
	return string(t)
}

// IsValid checks if the StepType is a valid value.
func (t StepType) IsValid() bool {
	switch t {
	case StepTypeAtomic, StepTypeComposite:
		return true
	default:
		return false
	}
}

// StepStatus represents the execution status of a step. The first three
// states are derived structurally; the rest are reported by execution.
type StepStatus string

const (
	StepStatusUnresolved         StepStatus = "unresolved"
	StepStatusPendingInputsReady StepStatus = "pending_inputs_ready"
	StepStatusReady              StepStatus = "ready"
	StepStatusInProgress         StepStatus = "in_progress"
	StepStatusCompleted          StepStatus = "completed"
	StepStatusFailed             StepStatus = "failed"
)

// String returns the string representation of the step status.
func (s StepStatus) String() string {
	return string(s)
}

// IsValid checks if the StepStatus is a valid value.
func (s StepStatus) IsValid() bool {
	switch s {
	case StepStatusUnresolved, StepStatusPendingInputsReady, StepStatusReady,
		StepStatusInProgress, StepStatusCompleted, StepStatusFailed:
		return true
	default:
		return false
	}
}

// rank orders statuses along the lifecycle for least-advanced-dependency
// comparisons. Failed ranks with pending_inputs_ready: a failed child
// holds its parent back but does not make it unresolved.
func (s StepStatus) rank() int {
	switch s {
	case StepStatusUnresolved:
		return 0
	case StepStatusPendingInputsReady, StepStatusFailed:
		return 1
	case StepStatusReady:
		return 2
	case StepStatusInProgress:
		return 3
	case StepStatusCompleted:
		return 4
	default:
		return 0
	}
}

// AtLeastReady reports whether the status has reached the ready state.
func (s StepStatus) AtLeastReady() bool {
	return s.rank() >= StepStatusReady.rank() && s != StepStatusFailed
}

// Step is a unit of work in the decomposition hierarchy. An atomic step
// runs a tool; a composite step decomposes into at least two sub-steps.
// State only ever contains variables the step itself created or copies
// explicitly pulled down through mappings; it never aliases an ancestor's
// storage.
type Step struct {
	// ID is the unique identifier for the step.
	ID types.ID `json:"id" yaml:"id"`

	// Name is a human-readable name for the step.
	Name string `json:"name" yaml:"name"`

	// Description provides additional context about what the step does.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Type discriminates atomic from composite steps.
	Type StepType `json:"type" yaml:"type"`

	// State is the step's local variable set.
	State []*Variable `json:"state,omitempty" yaml:"state,omitempty"`

	// InputMappings wire available inputs into tool parameters.
	InputMappings []Mapping `json:"input_mappings,omitempty" yaml:"input_mappings,omitempty"`

	// OutputMappings wire produced values into variables.
	OutputMappings []Mapping `json:"output_mappings,omitempty" yaml:"output_mappings,omitempty"`

	// ToolID is the selected tool for atomic steps.
	ToolID string `json:"tool_id,omitempty" yaml:"tool_id,omitempty"`

	// Substeps are the children of composite steps, in execution order.
	Substeps []*Step `json:"substeps,omitempty" yaml:"substeps,omitempty"`

	// Status is the stored execution status. Structural derivation may
	// downgrade it; execution events advance it.
	Status StepStatus `json:"status" yaml:"status"`
}

// IsAtomic reports whether the step is a leaf tool step.
func (s *Step) IsAtomic() bool {
	return s.Type == StepTypeAtomic
}

// Variable returns the variable with the given ID from the step's local
// state, or nil if the step does not own it.
func (s *Step) Variable(id types.ID) *Variable {
	for _, v := range s.State {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Clone returns a deep copy of the step and its entire subtree.
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	clone := *s
	clone.State = cloneVariables(s.State)
	clone.InputMappings = cloneMappings(s.InputMappings)
	clone.OutputMappings = cloneMappings(s.OutputMappings)
	if s.Substeps != nil {
		clone.Substeps = make([]*Step, len(s.Substeps))
		for i, sub := range s.Substeps {
			clone.Substeps[i] = sub.Clone()
		}
	}
	return &clone
}

// Stage is a named grouping of sibling top-level steps with its own
// variable scope. Stages carry mappings like steps but never execute a
// tool themselves.
type Stage struct {
	// ID is the unique identifier for the stage.
	ID types.ID `json:"id" yaml:"id"`

	// Name is a human-readable name for the stage.
	Name string `json:"name" yaml:"name"`

	// Description provides additional context about the stage.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// State is the stage's local variable set.
	State []*Variable `json:"state,omitempty" yaml:"state,omitempty"`

	// InputMappings wire values down from enclosing scopes.
	InputMappings []Mapping `json:"input_mappings,omitempty" yaml:"input_mappings,omitempty"`

	// OutputMappings wire produced values into stage variables.
	OutputMappings []Mapping `json:"output_mappings,omitempty" yaml:"output_mappings,omitempty"`

	// Steps are the stage's top-level steps, in execution order.
	Steps []*Step `json:"steps" yaml:"steps"`
}

// Variable returns the variable with the given ID from the stage's local
// state, or nil if the stage does not own it.
func (st *Stage) Variable(id types.ID) *Variable {
	for _, v := range st.State {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Clone returns a deep copy of the stage and all of its steps.
func (st *Stage) Clone() *Stage {
	if st == nil {
		return nil
	}
	clone := *st
	clone.State = cloneVariables(st.State)
	clone.InputMappings = cloneMappings(st.InputMappings)
	clone.OutputMappings = cloneMappings(st.OutputMappings)
	if st.Steps != nil {
		clone.Steps = make([]*Step, len(st.Steps))
		for i, step := range st.Steps {
			clone.Steps[i] = step.Clone()
		}
	}
	return &clone
}

// Workflow is an ordered sequence of stages plus the root variable scope.
// Variables tagged as inputs here are visible to every node in the tree.
type Workflow struct {
	// ID is the unique identifier for the workflow.
	ID types.ID `json:"id" yaml:"id"`

	// Name is a human-readable name for the workflow.
	Name string `json:"name" yaml:"name"`

	// Description provides additional context about the workflow.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// State is the workflow-level variable set, including mission inputs
	// copied down from mission scope.
	State []*Variable `json:"state,omitempty" yaml:"state,omitempty"`

	// InputMappings wire mission-scope values into workflow variables.
	InputMappings []Mapping `json:"input_mappings,omitempty" yaml:"input_mappings,omitempty"`

	// OutputMappings wire stage outputs up into workflow variables.
	OutputMappings []Mapping `json:"output_mappings,omitempty" yaml:"output_mappings,omitempty"`

	// Stages are the workflow's stages, in execution order.
	Stages []*Stage `json:"stages" yaml:"stages"`
}

// Variable returns the variable with the given ID from the workflow's
// root state, or nil if the workflow does not own it.
func (w *Workflow) Variable(id types.ID) *Variable {
	for _, v := range w.State {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Clone returns a deep copy of the workflow and its entire tree.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	clone := *w
	clone.State = cloneVariables(w.State)
	clone.InputMappings = cloneMappings(w.InputMappings)
	clone.OutputMappings = cloneMappings(w.OutputMappings)
	if w.Stages != nil {
		clone.Stages = make([]*Stage, len(w.Stages))
		for i, stage := range w.Stages {
			clone.Stages[i] = stage.Clone()
		}
	}
	return &clone
}

func cloneVariables(vars []*Variable) []*Variable {
	if vars == nil {
		return nil
	}
	out := make([]*Variable, len(vars))
	for i, v := range vars {
		out[i] = v.Clone()
	}
	return out
}

func cloneMappings(mappings []Mapping) []Mapping {
	if mappings == nil {
		return nil
	}
	out := make([]Mapping, len(mappings))
	copy(out, mappings)
	return out
}
