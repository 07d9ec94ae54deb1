package mission

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// The reducer is the coarse state machine layered over the pure engines:
// it sequences proposal, acceptance, execution, completion and retry at
// mission scope. Every transition is an atomic replace-in-place: it deep
// clones the mission, mutates the clone, and returns it. Transitions that
// reference a hop first verify the ID against the live current hop;
// mismatches return the input mission untouched (stale or out-of-order
// events are identity transitions, never partial mutations). The same
// guard doubles as the cancellation mechanism for superseded streams.

// AcceptMissionProposal marks the mission active and clears the collab
// area.
func AcceptMissionProposal(m *Mission) *Mission {
	next := m.Clone()
	next.Status = MissionStatusActive
	next.CollabArea = CollabAreaNone
	return next
}

// AcceptHopProposal replaces the current hop wholesale with the proposed
// hop, entering resolution.
func AcceptHopProposal(m *Mission, hop *Hop) *Mission {
	next := m.Clone()
	next.CurrentHop = hop.Clone()
	next.CurrentHop.Status = HopStatusReadyToResolve
	next.CollabArea = CollabAreaHopImplementationProposal
	return next
}

// AcceptHopImplementation replaces the current hop wholesale with the
// resolved implementation, advancing it to ready-to-execute.
func AcceptHopImplementation(m *Mission, hop *Hop) *Mission {
	next := m.Clone()
	next.CurrentHop = hop.Clone()
	next.CurrentHop.Status = HopStatusReadyToExecute
	next.CollabArea = CollabAreaLiveHop
	return next
}

// AcceptHopComplete appends the current hop to history marked complete.
// The mission itself completes iff the hop was flagged final.
func AcceptHopComplete(m *Mission) *Mission {
	if m.CurrentHop == nil {
		return m
	}
	next := m.Clone()
	hop := next.CurrentHop
	next.CurrentHop = nil

	if hop.IsFinal {
		hop.Status = HopStatusAllHopsComplete
		next.Status = MissionStatusComplete
	} else {
		hop.Status = HopStatusCompleted
	}
	next.HopHistory = append(next.HopHistory, hop)
	next.CollabArea = CollabAreaNone
	return next
}

// StartExecution marks the current hop running and its first pending tool
// step as running. A hopID that does not match the live hop is a no-op.
func StartExecution(m *Mission, hopID types.ID) *Mission {
	if !isLiveHop(m, hopID) {
		return m
	}
	next := m.Clone()
	hop := next.CurrentHop
	hop.Status = HopStatusRunning
	for _, ts := range hop.ToolSteps {
		if ts.Status == ToolStepStatusPending {
			ts.Status = ToolStepStatusRunning
			break
		}
	}
	return next
}

// CompleteExecution moves the current hop to history with all of its tool
// steps marked completed. A hopID mismatch is a no-op.
func CompleteExecution(m *Mission, hopID types.ID) *Mission {
	if !isLiveHop(m, hopID) {
		return m
	}
	next := m.Clone()
	hop := next.CurrentHop
	next.CurrentHop = nil

	for _, ts := range hop.ToolSteps {
		ts.Status = ToolStepStatusCompleted
		ts.Error = ""
	}
	hop.Status = HopStatusCompleted
	hop.Error = ""
	next.HopHistory = append(next.HopHistory, hop)
	return next
}

// FailExecution marks the hop's unfinished tool steps failed, attaches the
// error, and reverts the hop to ready-to-execute so it can be retried.
// A hopID mismatch is a no-op.
func FailExecution(m *Mission, hopID types.ID, errMsg string) *Mission {
	if !isLiveHop(m, hopID) {
		return m
	}
	next := m.Clone()
	hop := next.CurrentHop
	for _, ts := range hop.ToolSteps {
		if ts.Status != ToolStepStatusCompleted {
			ts.Status = ToolStepStatusFailed
			ts.Error = errMsg
		}
	}
	hop.Status = HopStatusReadyToExecute
	hop.Error = errMsg
	return next
}

// RetryExecution clears the error and resets the hop's tool steps to
// pending, leaving the hop ready to execute again. A hopID mismatch is a
// no-op.
func RetryExecution(m *Mission, hopID types.ID) *Mission {
	if !isLiveHop(m, hopID) {
		return m
	}
	next := m.Clone()
	hop := next.CurrentHop
	for _, ts := range hop.ToolSteps {
		ts.Status = ToolStepStatusPending
		ts.Error = ""
	}
	hop.Status = HopStatusReadyToExecute
	hop.Error = ""
	return next
}

// isLiveHop reports whether hopID names the mission's live current hop.
func isLiveHop(m *Mission, hopID types.ID) bool {
	return m != nil && m.CurrentHop != nil && !hopID.IsZero() && m.CurrentHop.ID == hopID
}
