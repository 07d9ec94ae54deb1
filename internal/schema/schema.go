package schema

import "encoding/json"

// SchemaType identifies the kind of value a schema describes.
// The set is closed: primitives, object, and file.
type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
	TypeDate    SchemaType = "date"
	TypeObject  SchemaType = "object"
	TypeFile    SchemaType = "file"
)

// String returns the string representation of the schema type.
func (t SchemaType) String() string {
	return string(t)
}

// IsValid checks if the SchemaType is a valid value.
func (t SchemaType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate, TypeObject, TypeFile:
		return true
	default:
		return false
	}
}

// IsPrimitive returns true for scalar types (everything except object and file).
func (t SchemaType) IsPrimitive() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeDate:
		return true
	default:
		return false
	}
}

// Schema describes the shape of a value flowing through the mission tree.
// Fields is present iff Type is object; ContentTypes is meaningful only
// when Type is file.
type Schema struct {
	// Type is the value kind (string, number, boolean, date, object, file).
	Type SchemaType `json:"type" yaml:"type"`

	// IsArray marks the value as a homogeneous list of Type.
	IsArray bool `json:"is_array" yaml:"is_array"`

	// Fields maps field names to nested schemas for object types.
	Fields map[string]*Schema `json:"fields,omitempty" yaml:"fields,omitempty"`

	// ContentTypes lists acceptable content types for file schemas
	// (e.g. "text/csv", "application/pdf").
	ContentTypes []string `json:"content_types,omitempty" yaml:"content_types,omitempty"`

	// Format is an optional format hint (e.g. "date-time", "uri").
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Description provides human-readable schema documentation.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewStringSchema creates a scalar string schema with the given description.
func NewStringSchema(description string) Schema {
	return Schema{Type: TypeString, Description: description}
}

// NewNumberSchema creates a scalar number schema with the given description.
func NewNumberSchema(description string) Schema {
	return Schema{Type: TypeNumber, Description: description}
}

// NewBooleanSchema creates a scalar boolean schema with the given description.
func NewBooleanSchema(description string) Schema {
	return Schema{Type: TypeBoolean, Description: description}
}

// NewObjectSchema creates an object schema with the given fields.
func NewObjectSchema(fields map[string]*Schema) Schema {
	return Schema{Type: TypeObject, Fields: fields}
}

// NewFileSchema creates a file schema accepting the given content types.
func NewFileSchema(contentTypes ...string) Schema {
	return Schema{Type: TypeFile, ContentTypes: contentTypes}
}

// AsArray returns a copy of the schema marked as an array.
func (s Schema) AsArray() Schema {
	s.IsArray = true
	return s
}

// WithFormat returns a copy of the schema with a format hint.
func (s Schema) WithFormat(format string) Schema {
	s.Format = format
	return s
}

// WithDescription returns a copy of the schema with a description.
func (s Schema) WithDescription(description string) Schema {
	s.Description = description
	return s
}

// Validate checks the structural invariants of the schema:
// the type must be a known kind, Fields must be present iff the type
// is object, and ContentTypes may only appear on file schemas.
func (s Schema) Validate() error {
	if !s.Type.IsValid() {
		return &ValidationError{Field: "type", Reason: "unknown schema type " + string(s.Type)}
	}

	if s.Type == TypeObject && len(s.Fields) == 0 {
		return &ValidationError{Field: "fields", Reason: "object schema must declare fields"}
	}
	if s.Type != TypeObject && len(s.Fields) > 0 {
		return &ValidationError{Field: "fields", Reason: "fields are only valid on object schemas"}
	}
	if s.Type != TypeFile && len(s.ContentTypes) > 0 {
		return &ValidationError{Field: "content_types", Reason: "content_types are only valid on file schemas"}
	}

	for name, nested := range s.Fields {
		if nested == nil {
			return &ValidationError{Field: name, Reason: "nested schema cannot be nil"}
		}
		if err := nested.Validate(); err != nil {
			return &ValidationError{Field: name, Reason: err.Error()}
		}
	}

	return nil
}

// ValidationError reports a structural problem with a schema declaration.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "schema field " + e.Field + ": " + e.Reason
}

// MarshalJSON ensures proper JSON serialization.
func (s Schema) MarshalJSON() ([]byte, error) {
	type Alias Schema
	return json.Marshal((Alias)(s))
}
