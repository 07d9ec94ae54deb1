package plan

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/schema"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// MappingOperation controls how a produced value is folded into the
// target variable's current value.
type MappingOperation string

const (
	// OpAssign replaces the target value, with cross-type coercion.
	OpAssign MappingOperation = "assign"

	// OpAppend accumulates onto the target value: delimiter-joined for
	// scalars, element-appended for arrays.
	OpAppend MappingOperation = "append"
)

// String returns the string representation of the mapping operation.
func (op MappingOperation) String() string {
	return string(op)
}

// IsValid checks if the MappingOperation is a valid value.
func (op MappingOperation) IsValid() bool {
	switch op {
	case OpAssign, OpAppend:
		return true
	default:
		return false
	}
}

// TargetKind discriminates the two mapping target variants.
type TargetKind string

const (
	// TargetVariable points the mapping at another variable.
	TargetVariable TargetKind = "variable"

	// TargetParameter points the mapping at a tool-input parameter.
	TargetParameter TargetKind = "parameter"
)

// MappingTarget is a two-variant union: either a variable target (wiring
// a produced value into a variable) or a parameter target (wiring an
// available input into a tool call). Kind selects the active variant;
// consumers dispatch on it exhaustively.
type MappingTarget struct {
	// Kind selects the active variant.
	Kind TargetKind `json:"kind" yaml:"kind"`

	// VariableID is set for variable targets.
	VariableID types.ID `json:"variable_id,omitempty" yaml:"variable_id,omitempty"`

	// Parameter is the tool-input parameter name for parameter targets.
	Parameter string `json:"parameter,omitempty" yaml:"parameter,omitempty"`

	// Schema is the schema the parameter requires.
	Schema schema.Schema `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Required marks the parameter as mandatory for tool execution.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
}

// NewVariableTarget creates a target pointing at another variable.
func NewVariableTarget(variableID types.ID) MappingTarget {
	return MappingTarget{Kind: TargetVariable, VariableID: variableID}
}

// NewParameterTarget creates a target naming a tool-input parameter.
func NewParameterTarget(name string, s schema.Schema, required bool) MappingTarget {
	return MappingTarget{Kind: TargetParameter, Parameter: name, Schema: s, Required: required}
}

// IsVariable reports whether the target is the variable variant with a
// usable variable reference.
func (t MappingTarget) IsVariable() bool {
	return t.Kind == TargetVariable && !t.VariableID.IsZero()
}

// IsParameter reports whether the target is the parameter variant.
func (t MappingTarget) IsParameter() bool {
	return t.Kind == TargetParameter
}

// Mapping connects a source variable to a target. Input mappings use
// parameter targets; output mappings use variable targets.
type Mapping struct {
	// SourceID is the variable providing the value. Zero for an input
	// mapping means the parameter is not yet bound.
	SourceID types.ID `json:"source_id,omitempty" yaml:"source_id,omitempty"`

	// Operation controls how the value folds into the target variable.
	Operation MappingOperation `json:"operation,omitempty" yaml:"operation,omitempty"`

	// Target is the destination of the wire.
	Target MappingTarget `json:"target" yaml:"target"`

	// IsParentOutput marks the source as re-exported unchanged as the
	// owning node's own output. Such a variable is passed through to the
	// grandparent scope and removed from ordinary sibling/ancestor
	// visibility.
	IsParentOutput bool `json:"is_parent_output,omitempty" yaml:"is_parent_output,omitempty"`

	// Selector is an optional JSONPath applied to the raw tool payload
	// before the value reaches the applicator.
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
}

// IsBound reports whether an input mapping has a source variable wired in.
func (m Mapping) IsBound() bool {
	return !m.SourceID.IsZero()
}
