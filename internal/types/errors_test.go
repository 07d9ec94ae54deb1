package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJamErrorFormatting(t *testing.T) {
	err := NewError(TREE_NODE_NOT_FOUND, "step abc not indexed")
	assert.Equal(t, "[TREE_NODE_NOT_FOUND] step abc not indexed", err.Error())

	wrapped := WrapError(MISSION_PARSE_FAILED, "bad mission file", fmt.Errorf("yaml: line 3"))
	assert.Equal(t, "[MISSION_PARSE_FAILED] bad mission file: yaml: line 3", wrapped.Error())
}

func TestJamErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := WrapError(CATALOG_LOAD_FAILED, "cannot read catalog", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.ErrorIs(t, err, cause)
}

func TestJamErrorIsMatchesByCode(t *testing.T) {
	a := NewError(TREE_CYCLE_DETECTED, "cycle at step x")
	b := NewError(TREE_CYCLE_DETECTED, "different message")
	c := NewError(TREE_INVALID, "cycle at step x")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestJamErrorRetryable(t *testing.T) {
	assert.False(t, NewError(TOOL_NOT_FOUND, "x").Retryable)
	assert.True(t, NewRetryableError(MISSION_LOAD_FAILED, "x").Retryable)
}
