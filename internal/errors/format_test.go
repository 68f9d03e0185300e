package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_IncludesCodeAndHint(t *testing.T) {
	// Given: an error with suggestion
	err := New(ErrCodeIndexExists, "index already exists at /data/idx", nil).
		WithSuggestion("delete the index first or open it instead")

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: message, hint and code are present
	assert.Contains(t, result, "Error: index already exists at /data/idx")
	assert.Contains(t, result, "Hint: delete the index first")
	assert.Contains(t, result, "Code: ERR_301_INDEX_EXISTS")
}

func TestFormatForCLI_StandardError(t *testing.T) {
	result := FormatForCLI(errors.New("boom"))

	assert.Contains(t, result, "Error: boom")
	assert.Contains(t, result, ErrCodeInternal)
}

func TestFormatForCLI_NilError(t *testing.T) {
	assert.Empty(t, FormatForCLI(nil))
}

func TestFormatJSON_BasicError(t *testing.T) {
	// Given: a lifecycle error with detail
	err := New(ErrCodeIndexNotFound, "index not found", nil).WithDetail("path", "/tmp/x")

	// When: formatting as JSON
	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	// Then: structured fields round out the message
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, ErrCodeIndexNotFound, parsed["code"])
	assert.Equal(t, float64(302), parsed["number"])
	assert.Equal(t, "LIFECYCLE", parsed["category"])
	assert.Equal(t, "/tmp/x", parsed["details"].(map[string]any)["path"])
}

func TestFormatJSON_WithCause(t *testing.T) {
	err := IOError("cannot remove index", errors.New("permission denied"))

	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "permission denied", parsed["cause"])
}

func TestFormatJSON_NilError(t *testing.T) {
	data, err := FormatJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestFormatForLog_WrappedError(t *testing.T) {
	// Given: a coded error wrapped with fmt
	inner := New(ErrCodeFieldType, "unsupported field value type", nil).WithDetail("field", "tags")
	err := fmt.Errorf("add document: %w", inner)

	// When: formatting for log
	attrs := FormatForLog(err)

	// Then: the coded error is found through the chain
	assert.Equal(t, ErrCodeFieldType, attrs["error_code"])
	assert.Equal(t, "tags", attrs["detail_field"])
}
