package mission

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// HopStatus represents the lifecycle state of a hop: one stage's worth of
// proposed-and-executed work.
type HopStatus string

const (
	// HopStatusReadyToResolve indicates the hop proposal was accepted and
	// its implementation still needs to be worked out.
	HopStatusReadyToResolve HopStatus = "ready_to_resolve"

	// HopStatusReadyToExecute indicates the implementation was accepted
	// and the hop can run. Failed hops revert here for retry.
	HopStatusReadyToExecute HopStatus = "ready_to_execute"

	// HopStatusRunning indicates the hop is executing.
	HopStatusRunning HopStatus = "running"

	// HopStatusCompleted indicates the hop finished and moved to history.
	HopStatusCompleted HopStatus = "completed"

	// HopStatusAllHopsComplete indicates the final hop completed and the
	// mission has nothing left to run.
	HopStatusAllHopsComplete HopStatus = "all_hops_complete"
)

// String returns the string representation of the hop status.
func (s HopStatus) String() string {
	return string(s)
}

// IsValid checks if the HopStatus is a valid value.
func (s HopStatus) IsValid() bool {
	switch s {
	case HopStatusReadyToResolve, HopStatusReadyToExecute, HopStatusRunning,
		HopStatusCompleted, HopStatusAllHopsComplete:
		return true
	default:
		return false
	}
}

// ToolStepStatus represents the execution state of a single tool step
// within a hop.
type ToolStepStatus string

const (
	ToolStepStatusPending   ToolStepStatus = "pending"
	ToolStepStatusRunning   ToolStepStatus = "running"
	ToolStepStatusCompleted ToolStepStatus = "completed"
	ToolStepStatusFailed    ToolStepStatus = "failed"
)

// String returns the string representation of the tool step status.
func (s ToolStepStatus) String() string {
	return string(s)
}

// IsValid checks if the ToolStepStatus is a valid value.
func (s ToolStepStatus) IsValid() bool {
	switch s {
	case ToolStepStatusPending, ToolStepStatusRunning, ToolStepStatusCompleted, ToolStepStatusFailed:
		return true
	default:
		return false
	}
}

// ToolStep is one tool invocation planned within a hop. StepID links it to
// the atomic step in the workflow tree whose mappings govern its inputs
// and outputs.
type ToolStep struct {
	// ID is the unique identifier for the tool step.
	ID types.ID `json:"id" yaml:"id"`

	// StepID references the atomic step in the workflow tree.
	StepID types.ID `json:"step_id,omitempty" yaml:"step_id,omitempty"`

	// ToolID names the tool to invoke.
	ToolID string `json:"tool_id" yaml:"tool_id"`

	// Status is the execution state of this tool step.
	Status ToolStepStatus `json:"status" yaml:"status"`

	// Error carries a human-readable failure reason when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Hop is the coarse-grained unit of mission progress: a proposed batch of
// tool steps that is accepted, executed, and archived as one.
type Hop struct {
	// ID is the unique identifier for the hop.
	ID types.ID `json:"id" yaml:"id"`

	// Name is a human-readable name for the hop.
	Name string `json:"name" yaml:"name"`

	// Description explains what the hop is meant to accomplish.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Status is the hop lifecycle state.
	Status HopStatus `json:"status" yaml:"status"`

	// ToolSteps are the planned tool invocations, in execution order.
	ToolSteps []*ToolStep `json:"tool_steps,omitempty" yaml:"tool_steps,omitempty"`

	// IsFinal marks the hop whose completion completes the mission.
	IsFinal bool `json:"is_final,omitempty" yaml:"is_final,omitempty"`

	// Error carries the failure reason while a failed hop awaits retry.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Transcript accumulates streamed tokens while the hop runs.
	Transcript string `json:"transcript,omitempty" yaml:"transcript,omitempty"`
}

// Clone returns a deep copy of the hop and its tool steps.
func (h *Hop) Clone() *Hop {
	if h == nil {
		return nil
	}
	clone := *h
	if h.ToolSteps != nil {
		clone.ToolSteps = make([]*ToolStep, len(h.ToolSteps))
		for i, ts := range h.ToolSteps {
			step := *ts
			clone.ToolSteps[i] = &step
		}
	}
	return &clone
}
