package schema

import "fmt"

// MatchResult is the outcome of a structural compatibility check.
// When IsMatch is false, Reason carries a human-readable explanation
// suitable for surfacing on the offending mapping.
type MatchResult struct {
	IsMatch bool   `json:"is_match"`
	Reason  string `json:"reason,omitempty"`
}

// Match checks whether a value produced under the source schema can be
// consumed where the target schema is expected. Rules are checked in
// order, short-circuiting on the first failure:
//
//  1. Types must be identical.
//  2. Array-ness must be identical.
//  3. Objects match structurally: every target field must exist on the
//     source and match recursively. Extra source fields are allowed
//     (width subtyping).
//  4. Files with declared content types must share at least one entry.
//
// Match is pure and total over well-formed schemas; it never returns an error.
func Match(source, target Schema) MatchResult {
	if source.Type != target.Type {
		return mismatch("type %s does not match required type %s", source.Type, target.Type)
	}

	if source.IsArray != target.IsArray {
		if target.IsArray {
			return mismatch("expected an array of %s but source is a single value", target.Type)
		}
		return mismatch("expected a single %s but source is an array", target.Type)
	}

	if source.Type == TypeObject {
		return matchObject(source, target)
	}

	if source.Type == TypeFile {
		return matchFile(source, target)
	}

	return MatchResult{IsMatch: true}
}

// matchObject applies structural width subtyping: the target's fields
// form the required set, the source may carry more.
func matchObject(source, target Schema) MatchResult {
	if source.Fields == nil || target.Fields == nil {
		return mismatch("object schemas must declare fields")
	}

	for name, targetField := range target.Fields {
		sourceField, ok := source.Fields[name]
		if !ok {
			return mismatch("missing required field %q", name)
		}
		if nested := Match(*sourceField, *targetField); !nested.IsMatch {
			return mismatch("field %q: %s", name, nested.Reason)
		}
	}

	return MatchResult{IsMatch: true}
}

// matchFile requires a shared content type when both sides declare one.
// A side with no declared content types accepts anything.
func matchFile(source, target Schema) MatchResult {
	if len(source.ContentTypes) == 0 || len(target.ContentTypes) == 0 {
		return MatchResult{IsMatch: true}
	}

	for _, st := range source.ContentTypes {
		for _, tt := range target.ContentTypes {
			if st == tt {
				return MatchResult{IsMatch: true}
			}
		}
	}

	return mismatch("no shared content type between %v and %v", source.ContentTypes, target.ContentTypes)
}

func mismatch(format string, args ...any) MatchResult {
	return MatchResult{IsMatch: false, Reason: fmt.Sprintf(format, args...)}
}
