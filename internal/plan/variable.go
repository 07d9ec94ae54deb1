package plan

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/schema"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// VariableStatus represents the production state of a variable.
type VariableStatus string

const (
	// VariableStatusPending indicates the variable is declared but has no value yet.
	VariableStatusPending VariableStatus = "pending"

	// VariableStatusReady indicates a value has been assigned.
	VariableStatusReady VariableStatus = "ready"

	// VariableStatusError indicates production of the value failed.
	VariableStatusError VariableStatus = "error"
)

// String returns the string representation of the variable status.
func (s VariableStatus) String() string {
	return string(s)
}

// IsValid checks if the VariableStatus is a valid value.
func (s VariableStatus) IsValid() bool {
	switch s {
	case VariableStatusPending, VariableStatusReady, VariableStatusError:
		return true
	default:
		return false
	}
}

// IOType classifies a variable's role within its owning scope.
type IOType string

const (
	IOTypeInput  IOType = "input"
	IOTypeOutput IOType = "output"
	IOTypeWIP    IOType = "wip"
)

// String returns the string representation of the IO type.
func (t IOType) String() string {
	return string(t)
}

// IsValid checks if the IOType is a valid value.
func (t IOType) IsValid() bool {
	switch t {
	case IOTypeInput, IOTypeOutput, IOTypeWIP:
		return true
	default:
		return false
	}
}

// Variable is a named, typed slot of data flowing through the mission tree.
// Identity (ID, Name, Schema, CreatedBy) is immutable once created; only
// Value, Status and ErrorMessage mutate over its lifetime.
type Variable struct {
	// ID is the unique identifier for the variable.
	ID types.ID `json:"id" yaml:"id"`

	// Name is the display name for the variable.
	Name string `json:"name" yaml:"name"`

	// Schema declares the shape of the variable's value.
	Schema schema.Schema `json:"schema" yaml:"schema"`

	// Value is the current value, nil until produced.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// IOType classifies the variable within its owning scope.
	IOType IOType `json:"io_type" yaml:"io_type"`

	// Status is the production state of the variable.
	Status VariableStatus `json:"status" yaml:"status"`

	// ErrorMessage carries a human-readable reason when Status is error.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	// CreatedBy is the ID of the node that created this variable.
	CreatedBy types.ID `json:"created_by,omitempty" yaml:"created_by,omitempty"`
}

// NewVariable creates a pending variable owned by the given node.
func NewVariable(name string, s schema.Schema, ioType IOType, createdBy types.ID) *Variable {
	return &Variable{
		ID:        types.NewID(),
		Name:      name,
		Schema:    s,
		IOType:    ioType,
		Status:    VariableStatusPending,
		CreatedBy: createdBy,
	}
}

// SetValue assigns a value to the variable and marks it ready.
func (v *Variable) SetValue(value any) {
	v.Value = value
	v.Status = VariableStatusReady
	v.ErrorMessage = ""
}

// SetError marks the variable as failed with a human-readable message.
func (v *Variable) SetError(message string) {
	v.Status = VariableStatusError
	v.ErrorMessage = message
}

// Clone returns a deep copy of the variable, including its value.
// The mission tree is replaced wholesale on every mutation, so clones
// must never share mutable storage with the original.
func (v *Variable) Clone() *Variable {
	if v == nil {
		return nil
	}
	clone := *v
	clone.Value = cloneValue(v.Value)
	return &clone
}

// cloneValue deep-copies the JSON-shaped value representation
// (scalars, []any, map[string]any).
func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
