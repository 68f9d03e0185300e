//go:build darwin || freebsd || linux

package client

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/docindex/internal/errors"
)

// zeroingLibrary frees errors the way the shared library does: it clears
// both fields of the struct.
func zeroingLibrary(freed *int) *Library {
	return &Library{errorFree: func(e *cError) {
		*freed++
		e.Code = 0
		e.Message = 0
	}}
}

func TestTake_KeepsCodeAndMessage(t *testing.T) {
	// Given: an error struct as filled in by the library
	var freed int
	lib := zeroingLibrary(&freed)
	msg := []byte("path cannot contain '..'\x00")
	e := cError{Code: 401, Message: uintptr(unsafe.Pointer(&msg[0]))}

	// When: converting it
	err := lib.take(&e)
	runtime.KeepAlive(msg)

	// Then: code and message survive the free
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPath))
	assert.Equal(t, 401, errors.NumericCode(err))
	de, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "path cannot contain '..'", de.Message)
	assert.Equal(t, 1, freed)
	assert.Zero(t, e.Code)
}

func TestTake_SuccessFreesStrayMessage(t *testing.T) {
	var freed int
	lib := zeroingLibrary(&freed)
	msg := []byte("ignored\x00")
	e := cError{Message: uintptr(unsafe.Pointer(&msg[0]))}

	assert.NoError(t, lib.take(&e))
	runtime.KeepAlive(msg)
	assert.Equal(t, 1, freed)

	assert.NoError(t, lib.take(&cError{}))
	assert.Equal(t, 1, freed)
}

func TestTake_StaleHandle(t *testing.T) {
	var freed int
	lib := zeroingLibrary(&freed)
	msg := []byte("handle 0x100000001 is stale\x00")
	e := cError{Code: 602, Message: uintptr(unsafe.Pointer(&msg[0]))}

	err := lib.take(&e)
	runtime.KeepAlive(msg)

	assert.True(t, errors.HasCode(err, errors.ErrCodeStaleHandle))
}
