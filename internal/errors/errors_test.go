package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with Error
	err := New(ErrCodeIO, "cannot create directory", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, err)
	assert.Equal(t, originalErr, errors.Unwrap(err))
	assert.True(t, errors.Is(err, originalErr))
}

func TestError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "lifecycle error",
			code:     ErrCodeIndexExists,
			message:  "index already exists",
			expected: "[ERR_301_INDEX_EXISTS] index already exists",
		},
		{
			name:     "validation error",
			code:     ErrCodeFieldNotFound,
			message:  "field not found: color",
			expected: "[ERR_404_FIELD_NOT_FOUND] field not found: color",
		},
		{
			name:     "protocol error",
			code:     ErrCodeInvalidHandle,
			message:  "invalid writer handle (null)",
			expected: "[ERR_601_INVALID_HANDLE] invalid writer handle (null)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeIndexNotFound, "index A not found", nil)
	err2 := New(ErrCodeIndexNotFound, "index B not found", nil)

	assert.True(t, errors.Is(err1, err2))
}

func TestError_Is_DoesNotMatchDifferentCodes(t *testing.T) {
	err1 := New(ErrCodeIndexNotFound, "not found", nil)
	err2 := New(ErrCodeIndexExists, "exists", nil)

	assert.False(t, errors.Is(err1, err2))
}

func TestError_WithDetails_AddsContext(t *testing.T) {
	err := New(ErrCodeInvalidPath, "path cannot contain '..'", nil)

	err = err.WithDetail("path", "../etc")

	assert.Equal(t, "../etc", err.Details["path"])
}

func TestError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeIO, CategoryIO},
		{ErrCodeIndexExists, CategoryLifecycle},
		{ErrCodeSchemaMissing, CategoryLifecycle},
		{ErrCodeJSONParse, CategoryValidation},
		{ErrCodeSchemaInvalid, CategoryValidation},
		{ErrCodeEngine, CategoryInternal},
		{ErrCodeStaleHandle, CategoryProtocol},
		{"BOGUS", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestError_SeverityFromCode(t *testing.T) {
	assert.Equal(t, SeverityFatal, New(ErrCodeCorruptIndex, "x", nil).Severity)
	assert.Equal(t, SeverityWarning, New(ErrCodeIndexLocked, "x", nil).Severity)
	assert.Equal(t, SeverityError, New(ErrCodeFieldType, "x", nil).Severity)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeIO, nil))
}

func TestNumericCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"coded", New(ErrCodeFieldNotFound, "x", nil), 404},
		{"wrapped", fmt.Errorf("ctx: %w", New(ErrCodeStaleHandle, "x", nil)), 602},
		{"plain", errors.New("plain"), 501},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumericCode(tt.err))
		})
	}
}

func TestFromNumeric_RoundTripsKnownCodes(t *testing.T) {
	// Given: a code that crossed the boundary as a number
	err := FromNumeric(301, "index already exists at /x")

	// Then: the string code and category are recovered
	assert.Equal(t, ErrCodeIndexExists, err.Code)
	assert.Equal(t, CategoryLifecycle, err.Category)
	assert.Equal(t, "index already exists at /x", err.Message)

	// And: unknown numbers fall back to internal
	assert.Equal(t, ErrCodeInternal, FromNumeric(999, "?").Code)
}

func TestHasCode_FindsCodeThroughChain(t *testing.T) {
	err := fmt.Errorf("open writer: %w", New(ErrCodeIndexLocked, "locked", nil))

	assert.True(t, HasCode(err, ErrCodeIndexLocked))
	assert.False(t, HasCode(err, ErrCodeIO))
	assert.Equal(t, CategoryLifecycle, GetCategory(err))
	assert.Equal(t, ErrCodeIndexLocked, GetCode(err))
}

func TestIsFatal_ChecksFatalSeverity(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeCorruptIndex, "corrupt", nil)))
	assert.False(t, IsFatal(New(ErrCodeIO, "io", nil)))
	assert.False(t, IsFatal(errors.New("plain")))
}
