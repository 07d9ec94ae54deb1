package plan

// DeriveStatus computes a step's execution status purely from current data:
// the readiness of its bound inputs and, for composite steps, the derived
// statuses of its children. The function only downgrades toward unresolved
// or pending_inputs_ready on structural grounds; in_progress, completed and
// failed are driven by execution events and are returned unchanged once the
// structure supports them. It is a side-effect-free recursive fold, meant to
// be re-run against a consistent tree snapshot after every mutation.
func DeriveStatus(idx *Index, step *Step) StepStatus {
	if step == nil {
		return StepStatusUnresolved
	}

	if step.IsAtomic() {
		return deriveAtomic(idx, step)
	}
	return deriveComposite(idx, step)
}

func deriveAtomic(idx *Index, step *Step) StepStatus {
	if step.ToolID == "" {
		return StepStatusUnresolved
	}

	for _, m := range step.InputMappings {
		if !m.Target.IsParameter() || !m.Target.Required {
			continue
		}
		if !m.IsBound() || idx.Variable(m.SourceID) == nil {
			return StepStatusUnresolved
		}
	}

	for _, m := range step.InputMappings {
		if !m.Target.IsParameter() || !m.IsBound() {
			continue
		}
		v := idx.Variable(m.SourceID)
		if v != nil && v.Status != VariableStatusReady {
			return StepStatusPendingInputsReady
		}
	}

	return settle(step.Status)
}

func deriveComposite(idx *Index, step *Step) StepStatus {
	// A composite step needs at least two children to be resolvable.
	if len(step.Substeps) < 2 {
		return StepStatusUnresolved
	}

	childStatuses := make([]StepStatus, len(step.Substeps))
	for i, child := range step.Substeps {
		childStatuses[i] = DeriveStatus(idx, child)
	}

	for _, cs := range childStatuses {
		if cs == StepStatusUnresolved {
			return StepStatusUnresolved
		}
	}
	for _, cs := range childStatuses {
		if !cs.AtLeastReady() {
			return StepStatusPendingInputsReady
		}
	}

	return settle(step.Status)
}

// settle returns the stored status when execution has reported progress,
// otherwise ready. Structural derivation never upgrades a step past what
// execution reported, and never preserves a stale structural status once
// the inputs support readiness.
func settle(stored StepStatus) StepStatus {
	switch stored {
	case StepStatusInProgress, StepStatusCompleted, StepStatusFailed:
		return stored
	default:
		return StepStatusReady
	}
}

// IsStepReady reports whether the step can run: an atomic step with a tool
// assigned and all required inputs bound and ready, or a composite step
// with at least two children that are all individually at least ready.
func IsStepReady(idx *Index, step *Step) bool {
	return DeriveStatus(idx, step).AtLeastReady()
}
