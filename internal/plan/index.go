package plan

import (
	"fmt"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// ScopeKind identifies which level of the hierarchy a scope entry models.
type ScopeKind string

const (
	ScopeWorkflow ScopeKind = "workflow"
	ScopeStage    ScopeKind = "stage"
	ScopeStep     ScopeKind = "step"
)

// scopeEntry is the arena record for one scope in the tree. It normalizes
// workflow, stage and step levels into a single shape so the resolver and
// deriver can walk ancestry without caring which level they are at.
type scopeEntry struct {
	ID             types.ID
	Kind           ScopeKind
	Parent         types.ID // zero for the workflow root
	Ordinal        int      // position among siblings, execution order
	Vars           []*Variable
	OutputMappings []Mapping
	Children       []types.ID
	Step           *Step // nil for workflow/stage entries
}

// Index is an arena of scopes by ID with an explicit parent-pointer map.
// It is rebuilt from the workflow tree after every whole-tree replacement,
// which keeps lookups O(1) while preserving copy-on-write semantics for
// the tree itself.
type Index struct {
	root   types.ID
	scopes map[types.ID]*scopeEntry
	vars   map[types.ID]*Variable
}

// BuildIndex walks the workflow tree and produces an Index over it.
// It fails fast with TREE_INVALID on duplicate IDs and TREE_CYCLE_DETECTED
// if the same node is reachable twice (a reparented-into-own-subtree tree),
// since either indicates a tree built outside the intended construction path.
func BuildIndex(w *Workflow) (*Index, error) {
	if w == nil {
		return nil, types.NewError(types.TREE_INVALID, "workflow cannot be nil")
	}
	if w.ID.IsZero() {
		return nil, types.NewError(types.TREE_INVALID, "workflow has no ID")
	}

	idx := &Index{
		root:   w.ID,
		scopes: make(map[types.ID]*scopeEntry),
		vars:   make(map[types.ID]*Variable),
	}
	seen := make(map[*Step]bool)

	rootEntry := &scopeEntry{
		ID:             w.ID,
		Kind:           ScopeWorkflow,
		Vars:           w.State,
		OutputMappings: w.OutputMappings,
	}
	if err := idx.addScope(rootEntry); err != nil {
		return nil, err
	}

	for i, stage := range w.Stages {
		if stage == nil {
			return nil, types.NewError(types.TREE_INVALID, fmt.Sprintf("workflow %s has a nil stage", w.ID))
		}
		stageEntry := &scopeEntry{
			ID:             stage.ID,
			Kind:           ScopeStage,
			Parent:         w.ID,
			Ordinal:        i,
			Vars:           stage.State,
			OutputMappings: stage.OutputMappings,
		}
		if err := idx.addScope(stageEntry); err != nil {
			return nil, err
		}
		rootEntry.Children = append(rootEntry.Children, stage.ID)

		for j, step := range stage.Steps {
			if err := idx.addStep(step, stage.ID, j, stageEntry, seen); err != nil {
				return nil, err
			}
		}
	}

	return idx, nil
}

// addStep registers a step and recurses into its substeps.
func (idx *Index) addStep(step *Step, parent types.ID, ordinal int, parentEntry *scopeEntry, seen map[*Step]bool) error {
	if step == nil {
		return types.NewError(types.TREE_INVALID, fmt.Sprintf("scope %s has a nil step", parent))
	}
	if seen[step] {
		return types.NewError(types.TREE_CYCLE_DETECTED,
			fmt.Sprintf("step %s (%s) is reachable more than once", step.ID, step.Name))
	}
	seen[step] = true

	entry := &scopeEntry{
		ID:             step.ID,
		Kind:           ScopeStep,
		Parent:         parent,
		Ordinal:        ordinal,
		Vars:           step.State,
		OutputMappings: step.OutputMappings,
		Step:           step,
	}
	if err := idx.addScope(entry); err != nil {
		return err
	}
	parentEntry.Children = append(parentEntry.Children, step.ID)

	for i, sub := range step.Substeps {
		if err := idx.addStep(sub, step.ID, i, entry, seen); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Index) addScope(entry *scopeEntry) error {
	if entry.ID.IsZero() {
		return types.NewError(types.TREE_INVALID, "scope has no ID")
	}
	if _, exists := idx.scopes[entry.ID]; exists {
		return types.NewError(types.TREE_INVALID, fmt.Sprintf("duplicate scope ID %s", entry.ID))
	}
	idx.scopes[entry.ID] = entry

	for _, v := range entry.Vars {
		if v == nil {
			return types.NewError(types.TREE_INVALID, fmt.Sprintf("scope %s has a nil variable", entry.ID))
		}
		if _, exists := idx.vars[v.ID]; exists {
			return types.NewError(types.TREE_INVALID, fmt.Sprintf("duplicate variable ID %s", v.ID))
		}
		idx.vars[v.ID] = v
	}
	return nil
}

// Root returns the workflow root scope ID.
func (idx *Index) Root() types.ID {
	return idx.root
}

// Scope returns the scope entry for the given ID, or an error with
// TREE_NODE_NOT_FOUND when the ID is not indexed.
func (idx *Index) Scope(id types.ID) (*scopeEntry, error) {
	entry, ok := idx.scopes[id]
	if !ok {
		return nil, types.NewError(types.TREE_NODE_NOT_FOUND, fmt.Sprintf("scope %s is not in the tree", id))
	}
	return entry, nil
}

// StepByID returns the step for the given scope ID, or an error if the ID
// is unknown or names a non-step scope.
func (idx *Index) StepByID(id types.ID) (*Step, error) {
	entry, err := idx.Scope(id)
	if err != nil {
		return nil, err
	}
	if entry.Step == nil {
		return nil, types.NewError(types.TREE_NODE_NOT_FOUND, fmt.Sprintf("scope %s is not a step", id))
	}
	return entry.Step, nil
}

// Variable returns the variable with the given ID from any scope in the
// tree, or nil if no scope owns it.
func (idx *Index) Variable(id types.ID) *Variable {
	return idx.vars[id]
}

// Ancestors returns the ancestor chain of the given scope ordered from the
// root down to (but not including) the scope itself. The walk is guarded
// against parent-pointer cycles: client code that reparents a node into its
// own subtree gets a TREE_CYCLE_DETECTED error rather than a hang.
func (idx *Index) Ancestors(id types.ID) ([]*scopeEntry, error) {
	entry, err := idx.Scope(id)
	if err != nil {
		return nil, err
	}

	var chain []*scopeEntry
	visited := map[types.ID]bool{id: true}

	for !entry.Parent.IsZero() {
		if visited[entry.Parent] {
			return nil, types.NewError(types.TREE_CYCLE_DETECTED,
				fmt.Sprintf("ancestry of %s revisits %s", id, entry.Parent))
		}
		visited[entry.Parent] = true

		parent, err := idx.Scope(entry.Parent)
		if err != nil {
			return nil, err
		}
		chain = append(chain, parent)
		entry = parent
	}

	// Reverse: collected child-up, callers want root-down.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// PriorSiblings returns the scopes that appear before the given scope in
// execution order within the same parent.
func (idx *Index) PriorSiblings(id types.ID) ([]*scopeEntry, error) {
	entry, err := idx.Scope(id)
	if err != nil {
		return nil, err
	}
	if entry.Parent.IsZero() {
		return nil, nil
	}

	parent, err := idx.Scope(entry.Parent)
	if err != nil {
		return nil, err
	}

	var siblings []*scopeEntry
	for _, childID := range parent.Children {
		if childID == id {
			break
		}
		child, err := idx.Scope(childID)
		if err != nil {
			return nil, err
		}
		siblings = append(siblings, child)
	}
	return siblings, nil
}
