// Package errors provides structured error handling for docindex.
//
// Error codes follow the pattern ERR_NNN_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (filesystem, environment)
//   - 3XX: Index lifecycle errors
//   - 4XX: Validation errors
//   - 5XX: Internal and engine errors
//   - 6XX: Handle protocol errors
//
// The numeric NNN part is stable and is what crosses the C boundary next to
// the message, so hosts can branch on it without parsing text.
package errors

import "strconv"

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryLifecycle indicates an index is in the wrong state for the request.
	CategoryLifecycle Category = "LIFECYCLE"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates engine or unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
	// CategoryProtocol indicates misuse of a writer handle.
	CategoryProtocol Category = "PROTOCOL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeIO             = "ERR_201_IO"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeDiskFull       = "ERR_203_DISK_FULL"

	// Lifecycle errors (300-399)
	ErrCodeIndexExists   = "ERR_301_INDEX_EXISTS"
	ErrCodeIndexNotFound = "ERR_302_INDEX_NOT_FOUND"
	ErrCodeCorruptIndex  = "ERR_303_CORRUPT_INDEX"
	ErrCodeSchemaMissing = "ERR_304_SCHEMA_MISSING"
	ErrCodeIndexLocked   = "ERR_305_INDEX_LOCKED"

	// Validation errors (400-499)
	ErrCodeInvalidPath     = "ERR_401_INVALID_PATH"
	ErrCodePayloadTooLarge = "ERR_402_PAYLOAD_TOO_LARGE"
	ErrCodeJSONParse       = "ERR_403_JSON_PARSE"
	ErrCodeFieldNotFound   = "ERR_404_FIELD_NOT_FOUND"
	ErrCodeFieldType       = "ERR_405_FIELD_TYPE"
	ErrCodeSchemaInvalid   = "ERR_406_SCHEMA_INVALID"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
	ErrCodeEngine   = "ERR_502_ENGINE"

	// Protocol errors (600-699)
	ErrCodeInvalidHandle = "ERR_601_INVALID_HANDLE"
	ErrCodeStaleHandle   = "ERR_602_STALE_HANDLE"
)

// codeNumber extracts the numeric portion (e.g., 101 from "ERR_101_CONFIG_NOT_FOUND").
// Returns 0 for malformed codes.
func codeNumber(code string) int {
	if len(code) < 7 {
		return 0
	}
	n, err := strconv.Atoi(code[4:7])
	if err != nil {
		return 0
	}
	return n
}

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	switch codeNumber(code) / 100 {
	case 1:
		return CategoryConfig
	case 2:
		return CategoryIO
	case 3:
		return CategoryLifecycle
	case 4:
		return CategoryValidation
	case 6:
		return CategoryProtocol
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeCorruptIndex, ErrCodeDiskFull:
		return SeverityFatal
	case ErrCodeIndexLocked:
		return SeverityWarning
	}
	return SeverityError
}

// codeFromNumber maps a numeric code back to its string form.
// Unknown numbers map to ErrCodeInternal.
func codeFromNumber(n int) string {
	if code, ok := knownCodes[n]; ok {
		return code
	}
	return ErrCodeInternal
}

var knownCodes = func() map[int]string {
	codes := []string{
		ErrCodeConfigNotFound, ErrCodeConfigInvalid,
		ErrCodeIO, ErrCodeFilePermission, ErrCodeDiskFull,
		ErrCodeIndexExists, ErrCodeIndexNotFound, ErrCodeCorruptIndex, ErrCodeSchemaMissing, ErrCodeIndexLocked,
		ErrCodeInvalidPath, ErrCodePayloadTooLarge, ErrCodeJSONParse, ErrCodeFieldNotFound, ErrCodeFieldType, ErrCodeSchemaInvalid,
		ErrCodeInternal, ErrCodeEngine,
		ErrCodeInvalidHandle, ErrCodeStaleHandle,
	}
	m := make(map[int]string, len(codes))
	for _, c := range codes {
		m[codeNumber(c)] = c
	}
	return m
}()
