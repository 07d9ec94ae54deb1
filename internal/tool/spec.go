package tool

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/schema"
)

// Parameter describes one declared input of a tool.
type Parameter struct {
	// Name is the parameter name referenced by input mappings.
	Name string `json:"name" yaml:"name"`

	// Description is human-readable parameter documentation.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Schema declares the shape the parameter requires.
	Schema schema.Schema `json:"schema" yaml:"schema"`

	// Required marks the parameter as mandatory for execution readiness.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
}

// Output describes one declared output of a tool.
type Output struct {
	// Name is the output name referenced by output mappings.
	Name string `json:"name" yaml:"name"`

	// Description is human-readable output documentation.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Schema declares the shape of the produced value.
	Schema schema.Schema `json:"schema" yaml:"schema"`
}

// Spec contains a tool's static metadata: identity, discovery tags, and
// the declared input/output schemas the engine reads when deriving status
// and applying outputs. The core never executes tools; a Spec is data.
type Spec struct {
	// ID is the unique identifier referenced by atomic steps.
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable name for the tool.
	Name string `json:"name" yaml:"name"`

	// Description explains what the tool does.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Version is the semantic version of the tool definition.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Tags categorize the tool for discovery.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Inputs are the declared input parameters.
	Inputs []Parameter `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// Outputs are the declared outputs.
	Outputs []Output `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// Input returns the declared parameter with the given name, or nil.
func (s *Spec) Input(name string) *Parameter {
	for i := range s.Inputs {
		if s.Inputs[i].Name == name {
			return &s.Inputs[i]
		}
	}
	return nil
}

// OutputByName returns the declared output with the given name, or nil.
func (s *Spec) OutputByName(name string) *Output {
	for i := range s.Outputs {
		if s.Outputs[i].Name == name {
			return &s.Outputs[i]
		}
	}
	return nil
}

// HasTag reports whether the spec carries the given tag.
func (s *Spec) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
