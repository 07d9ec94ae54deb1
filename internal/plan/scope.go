package plan

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// AvailableInputs computes the set of variables legally visible as inputs
// to the given node. A variable is visible iff it was produced by a node
// guaranteed, by declared ordering, to have already run by the time this
// node runs: a root input, an ancestor, or a prior sibling at any ancestor
// depth. Values re-exported as a parent's own output (isParentOutput
// mappings) are excluded at the owner's depth so the same value is never
// offered twice at two scope depths.
//
// The result is ordered by collection pass and deduplicated by variable ID,
// first occurrence wins.
func AvailableInputs(idx *Index, nodeID types.ID) ([]*Variable, error) {
	node, err := idx.Scope(nodeID)
	if err != nil {
		return nil, err
	}

	ancestors, err := idx.Ancestors(nodeID)
	if err != nil {
		return nil, err
	}

	var out []*Variable
	seen := make(map[types.ID]bool)
	collect := func(vars []*Variable) {
		for _, v := range vars {
			if v == nil || seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			out = append(out, v)
		}
	}

	// Pass 1: root inputs are visible everywhere.
	root, err := idx.Scope(idx.Root())
	if err != nil {
		return nil, err
	}
	collect(varsByIOType(root.Vars, IOTypeInput))

	// Pass 2: each ancestor's own outputs, root down, minus passed-through values.
	for _, ancestor := range ancestors {
		collect(scopeOutputs(ancestor))
	}

	// Pass 3: outputs of each ancestor's prior siblings, root down.
	for _, ancestor := range ancestors {
		priors, err := idx.PriorSiblings(ancestor.ID)
		if err != nil {
			return nil, err
		}
		for _, prior := range priors {
			collect(scopeOutputs(prior))
		}
	}

	// Pass 4: the node's own prior siblings.
	priors, err := idx.PriorSiblings(node.ID)
	if err != nil {
		return nil, err
	}
	for _, prior := range priors {
		collect(scopeOutputs(prior))
	}

	return out, nil
}

// scopeOutputs returns a scope's output variables, excluding any whose
// production mapping carries isParentOutput: those values belong to the
// grandparent scope and are not independently visible at this depth.
func scopeOutputs(entry *scopeEntry) []*Variable {
	excluded := parentOutputIDs(entry)

	var out []*Variable
	for _, v := range entry.Vars {
		if v == nil || v.IOType != IOTypeOutput {
			continue
		}
		if excluded[v.ID] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// parentOutputIDs collects the variable IDs a scope passes through to its
// parent: both the re-exported source and, when the mapping lands in a
// local variable, that variable.
func parentOutputIDs(entry *scopeEntry) map[types.ID]bool {
	ids := make(map[types.ID]bool)
	for _, m := range entry.OutputMappings {
		if !m.IsParentOutput {
			continue
		}
		if !m.SourceID.IsZero() {
			ids[m.SourceID] = true
		}
		if m.Target.IsVariable() {
			ids[m.Target.VariableID] = true
		}
	}
	return ids
}

func varsByIOType(vars []*Variable, ioType IOType) []*Variable {
	var out []*Variable
	for _, v := range vars {
		if v != nil && v.IOType == ioType {
			out = append(out, v)
		}
	}
	return out
}
