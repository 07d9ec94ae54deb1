package plan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// appendDelimiter separates accumulated scalar values.
const appendDelimiter = "\n\n"

// objectPlaceholder is the textual form of an object inside joined or
// appended scalar text. ASSIGN of a lone object to a scalar uses full JSON
// text instead; the asymmetry is a load-bearing contract, not an accident
// to fix here.
const objectPlaceholder = "[object]"

// Apply computes a variable's new value when a freshly produced output is
// folded onto it through a mapping. It never mutates the variable; the
// caller stores the returned value under the whole-tree replacement model.
//
// A mapping that is nil, has no operation, or does not target a variable is
// a defined pass-through: the new value is returned unchanged. An unknown
// operation returns a MAPPING_UNHANDLED_OPERATION error so the caller can
// surface it instead of silently dropping data.
func Apply(variable *Variable, mapping *Mapping, newValue any) (any, error) {
	if variable == nil {
		return newValue, nil
	}
	if mapping == nil || mapping.Operation == "" || !mapping.Target.IsVariable() {
		return newValue, nil
	}

	targetIsArray := variable.Schema.IsArray

	switch mapping.Operation {
	case OpAssign:
		if targetIsArray {
			return assignArray(newValue), nil
		}
		return assignScalar(newValue), nil

	case OpAppend:
		if targetIsArray {
			return appendArray(variable.Value, newValue), nil
		}
		return appendScalar(variable.Value, newValue), nil

	default:
		return nil, types.NewError(types.MAPPING_UNHANDLED_OPERATION,
			fmt.Sprintf("operation %q is not handled", mapping.Operation))
	}
}

// assignScalar coerces a new value onto a scalar target: arrays join their
// elements with commas, a lone object becomes its JSON text, anything else
// passes through untouched.
func assignScalar(newValue any) any {
	if arr, ok := asArray(newValue); ok {
		return joinElements(arr)
	}
	if obj, ok := asObject(newValue); ok {
		data, err := json.Marshal(obj)
		if err != nil {
			return objectPlaceholder
		}
		return string(data)
	}
	return newValue
}

// assignArray replaces an array target wholesale, wrapping a single value
// (scalar or object) in a one-element array rather than spreading it.
func assignArray(newValue any) any {
	if arr, ok := asArray(newValue); ok {
		return arr
	}
	return []any{newValue}
}

// appendScalar joins the current and new values with the two-newline
// delimiter. A nil current value is treated as empty, never as an error.
// Objects coerce to the placeholder text here, not JSON.
func appendScalar(current, newValue any) any {
	cur := coerceText(current)
	add := coerceText(newValue)
	if cur == "" {
		return add
	}
	return cur + appendDelimiter + add
}

// appendArray appends onto an array target: a nil current value starts
// from an empty array, an array new value contributes each element, and a
// single value (scalar or object) is pushed as one element, never exploded.
func appendArray(current, newValue any) any {
	var out []any
	switch {
	case current == nil:
		out = []any{}
	default:
		if arr, ok := asArray(current); ok {
			out = make([]any, len(arr))
			copy(out, arr)
		} else {
			out = []any{current}
		}
	}

	if arr, ok := asArray(newValue); ok {
		out = append(out, arr...)
	} else {
		out = append(out, newValue)
	}
	return out
}

// coerceText renders a value as scalar text: nil is empty, arrays join
// element texts with commas, objects become the placeholder, everything
// else formats naturally.
func coerceText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		return joinElements(val)
	case map[string]any:
		return objectPlaceholder
	default:
		return fmt.Sprint(val)
	}
}

// joinElements renders array elements as text joined with commas. Object
// elements use the placeholder form.
func joinElements(arr []any) string {
	parts := make([]string, len(arr))
	for i, item := range arr {
		if _, ok := asObject(item); ok {
			parts[i] = objectPlaceholder
			continue
		}
		parts[i] = coerceText(item)
	}
	return strings.Join(parts, ",")
}

func asArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}
