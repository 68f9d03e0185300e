//go:build darwin || freebsd || linux

package client

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/exportgen"
)

// Open loads the shared library at path and binds every export.
func Open(path string, opts ...Option) (*Library, error) {
	o := options{namespace: exportgen.Namespaces()[0]}
	for _, opt := range opts {
		opt(&o)
	}

	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to load %s: %v", path, err), err)
	}

	l := &Library{path: path, handle: handle}
	for op, fptr := range l.bindings() {
		sym := o.namespace.Symbol(op)
		addr, err := purego.Dlsym(handle, sym)
		if err != nil {
			_ = purego.Dlclose(handle)
			return nil, symbolError(path, sym, err)
		}
		purego.RegisterFunc(fptr, addr)
	}

	if err := l.checkABI(); err != nil {
		_ = purego.Dlclose(handle)
		return nil, err
	}
	return l, nil
}

// Close unloads the library. Open writers are not closed; call Shutdown first.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}

// goString copies a NUL-terminated C string.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	ptr := (*byte)(unsafe.Pointer(p))
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(ptr), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(ptr, n))
}
