package plan

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// ExtractValue applies a mapping's JSONPath selector to a raw tool payload
// before the value reaches the applicator. An empty selector returns the
// payload unchanged. A single match is returned bare, multiple matches as
// a slice, no matches as nil.
func ExtractValue(selector string, payload any) (any, error) {
	if selector == "" {
		return payload, nil
	}

	expr, err := jp.ParseString(selector)
	if err != nil {
		return nil, types.WrapError(types.MAPPING_SELECTOR_INVALID,
			fmt.Sprintf("invalid selector %q", selector), err)
	}

	results := expr.Get(payload)
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return []any(results), nil
	}
}
