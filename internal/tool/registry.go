package tool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// Registry manages tool registration and discovery. It is a read-mostly
// catalog: the engine consults it for declared schemas, never for
// execution. Implementations must be safe for concurrent use.
type Registry interface {
	// Register adds a tool spec to the catalog.
	Register(spec Spec) error

	// Unregister removes a tool from the catalog by ID.
	Unregister(id string) error

	// Get retrieves a tool spec by ID, returning an error if not found.
	Get(id string) (Spec, error)

	// List returns all registered specs ordered by ID.
	List() []Spec

	// ListByTag returns specs matching the given tag, ordered by ID.
	ListByTag(tag string) []Spec
}

// DefaultRegistry implements Registry with thread-safe operations.
type DefaultRegistry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewRegistry creates an empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		specs: make(map[string]Spec),
	}
}

// Register adds a tool spec to the catalog.
// Returns TOOL_INVALID for specs without an ID and TOOL_ALREADY_EXISTS
// when the ID is taken.
func (r *DefaultRegistry) Register(spec Spec) error {
	if spec.ID == "" {
		return types.NewError(types.TOOL_INVALID, "tool spec has no ID")
	}
	for _, p := range spec.Inputs {
		if err := p.Schema.Validate(); err != nil {
			return types.WrapError(types.TOOL_INVALID,
				fmt.Sprintf("tool %q input %q has an invalid schema", spec.ID, p.Name), err)
		}
	}
	for _, o := range spec.Outputs {
		if err := o.Schema.Validate(); err != nil {
			return types.WrapError(types.TOOL_INVALID,
				fmt.Sprintf("tool %q output %q has an invalid schema", spec.ID, o.Name), err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.ID]; exists {
		return types.NewError(types.TOOL_ALREADY_EXISTS, fmt.Sprintf("tool %q already registered", spec.ID))
	}
	r.specs[spec.ID] = spec
	return nil
}

// Unregister removes a tool from the catalog by ID.
func (r *DefaultRegistry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[id]; !exists {
		return types.NewError(types.TOOL_NOT_FOUND, fmt.Sprintf("tool %q is not registered", id))
	}
	delete(r.specs, id)
	return nil
}

// Get retrieves a tool spec by ID.
func (r *DefaultRegistry) Get(id string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, exists := r.specs[id]
	if !exists {
		return Spec{}, types.NewError(types.TOOL_NOT_FOUND, fmt.Sprintf("tool %q is not registered", id))
	}
	return spec, nil
}

// List returns all registered specs ordered by ID.
func (r *DefaultRegistry) List() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Spec, 0, len(r.specs))
	for _, spec := range r.specs {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListByTag returns specs matching the given tag, ordered by ID.
func (r *DefaultRegistry) ListByTag(tag string) []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Spec
	for _, spec := range r.specs {
		if spec.HasTag(tag) {
			out = append(out, spec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Ensure DefaultRegistry implements Registry at compile time
var _ Registry = (*DefaultRegistry)(nil)
