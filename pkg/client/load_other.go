//go:build !darwin && !freebsd && !linux

package client

import (
	"runtime"

	"github.com/Aman-CERP/docindex/internal/errors"
)

// Open is not supported on this platform.
func Open(path string, opts ...Option) (*Library, error) {
	return nil, errors.Newf(errors.ErrCodeInternal, "loading %s is not supported on %s", path, runtime.GOOS)
}

// Close is a no-op on this platform.
func (l *Library) Close() error { return nil }

func goString(p uintptr) string { return "" }
