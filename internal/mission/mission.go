package mission

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/plan"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// MissionStatus represents the coarse lifecycle state of a mission.
type MissionStatus string

const (
	// MissionStatusActive indicates the mission proposal has been accepted
	// and hops are being resolved and executed.
	MissionStatusActive MissionStatus = "active"

	// MissionStatusComplete indicates the final hop has been accepted as
	// complete.
	MissionStatusComplete MissionStatus = "complete"
)

// String returns the string representation of the mission status.
func (s MissionStatus) String() string {
	return string(s)
}

// IsValid checks if the MissionStatus is a valid value.
func (s MissionStatus) IsValid() bool {
	switch s {
	case MissionStatusActive, MissionStatusComplete:
		return true
	default:
		return false
	}
}

// CollabArea identifies which artifact is currently presented to the user
// for review: a proposal awaiting acceptance, or the live hop.
type CollabArea string

const (
	CollabAreaNone                      CollabArea = "none"
	CollabAreaMissionProposal           CollabArea = "mission_proposal"
	CollabAreaHopProposal               CollabArea = "hop_proposal"
	CollabAreaHopImplementationProposal CollabArea = "hop_implementation_proposal"
	CollabAreaLiveHop                   CollabArea = "live_hop"
)

// String returns the string representation of the collab area.
func (c CollabArea) String() string {
	return string(c)
}

// IsValid checks if the CollabArea is a valid value.
func (c CollabArea) IsValid() bool {
	switch c {
	case CollabAreaNone, CollabAreaMissionProposal, CollabAreaHopProposal,
		CollabAreaHopImplementationProposal, CollabAreaLiveHop:
		return true
	default:
		return false
	}
}

// Mission is the root container: the user's goal, success criteria, the
// mission-scope variable set, one workflow, and the coarse hop lifecycle.
// Every reducer transition replaces the mission wholesale; nothing holds a
// live reference into a superseded snapshot.
type Mission struct {
	// ID is the unique identifier for the mission.
	ID types.ID `json:"id" yaml:"id"`

	// Goal is the user's high-level objective.
	Goal string `json:"goal" yaml:"goal"`

	// SuccessCriteria describe what done looks like.
	SuccessCriteria []string `json:"success_criteria,omitempty" yaml:"success_criteria,omitempty"`

	// State is the mission-scope variable set (inputs and outputs).
	State []*plan.Variable `json:"state,omitempty" yaml:"state,omitempty"`

	// Workflow is the decomposition tree for the mission.
	Workflow *plan.Workflow `json:"workflow,omitempty" yaml:"workflow,omitempty"`

	// Status is the mission lifecycle state.
	Status MissionStatus `json:"status" yaml:"status"`

	// CollabArea identifies the artifact currently presented for review.
	CollabArea CollabArea `json:"collab_area" yaml:"collab_area"`

	// CurrentHop is the hop being resolved or executed, nil between hops.
	CurrentHop *Hop `json:"current_hop,omitempty" yaml:"current_hop,omitempty"`

	// HopHistory holds completed hops in completion order.
	HopHistory []*Hop `json:"hop_history,omitempty" yaml:"hop_history,omitempty"`
}

// Variable returns the mission-scope variable with the given ID, or nil.
func (m *Mission) Variable(id types.ID) *plan.Variable {
	for _, v := range m.State {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Clone returns a deep copy of the mission, its variable state, workflow
// tree, and hop lifecycle. Reducer transitions clone before mutating so
// derived computations always run against a consistent snapshot.
func (m *Mission) Clone() *Mission {
	if m == nil {
		return nil
	}
	clone := *m

	if m.SuccessCriteria != nil {
		clone.SuccessCriteria = make([]string, len(m.SuccessCriteria))
		copy(clone.SuccessCriteria, m.SuccessCriteria)
	}
	if m.State != nil {
		clone.State = make([]*plan.Variable, len(m.State))
		for i, v := range m.State {
			clone.State[i] = v.Clone()
		}
	}
	clone.Workflow = m.Workflow.Clone()
	clone.CurrentHop = m.CurrentHop.Clone()
	if m.HopHistory != nil {
		clone.HopHistory = make([]*Hop, len(m.HopHistory))
		for i, h := range m.HopHistory {
			clone.HopHistory[i] = h.Clone()
		}
	}
	return &clone
}
