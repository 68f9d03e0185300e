// Command libdocindex builds the docindex C shared library:
//
//	go build -buildmode=c-shared -o libdocindex.so ./cmd/libdocindex
//
// Every operation is exported twice, as docindex_snake_case and as
// DocIndexCamelCase, with identical behavior. Writers are addressed by
// 64-bit handles; zero is never a valid handle. Fallible calls take a
// docindex_error out-parameter that is zeroed on entry and filled on
// failure; its message must be released with docindex_error_free.
package main

//go:generate go run ../exportgen -o exports_gen.go

/*
#include <stdlib.h>
#include "docindex.h"
*/
import "C"

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"unsafe"

	"github.com/Aman-CERP/docindex/internal/bridge"
	"github.com/Aman-CERP/docindex/internal/config"
	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/logging"
	"github.com/Aman-CERP/docindex/pkg/version"
)

func main() {}

var (
	bridgeOnce sync.Once
	shared     *bridge.Bridge
)

// instance returns the process-wide bridge, configuring logging and limits
// from DOCINDEX_CONFIG and DOCINDEX_* on first use.
func instance() *bridge.Bridge {
	bridgeOnce.Do(func() {
		cfg, cfgErr := config.Load("")
		if cfgErr != nil {
			cfg = config.NewConfig()
		}

		logCfg := logging.DefaultConfig()
		logCfg.Level = cfg.Logging.Level
		logCfg.FilePath = cfg.Logging.File
		logCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
		logCfg.MaxFiles = cfg.Logging.MaxFiles
		logCfg.WriteToStderr = false
		if _, err := logging.SetupDefault(logCfg); err != nil {
			logCfg.FilePath = ""
			_, _ = logging.SetupDefault(logCfg)
			slog.Warn("log_file_unavailable", slog.String("error", err.Error()))
		}
		if cfgErr != nil {
			slog.Warn("config_load_failed",
				slog.String("error", cfgErr.Error()),
				slog.String("fallback", "defaults"))
		}

		opts := bridge.OptionsFromConfig(cfg)
		opts.Logger = slog.Default()
		shared = bridge.New(opts)
	})
	return shared
}

// call runs fn with errOut cleared, converting a panic into ERR_501.
func call(errOut *C.docindex_error, fn func() error) (ok bool) {
	clearError(errOut)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("boundary_panic",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			setError(errOut, errors.InternalError(fmt.Sprintf("internal error: %v", r), nil))
			ok = false
		}
	}()

	if err := fn(); err != nil {
		setError(errOut, err)
		return false
	}
	return true
}

func clearError(errOut *C.docindex_error) {
	if errOut == nil {
		return
	}
	errOut.code = 0
	errOut.message = nil
}

// setError fills errOut with err's numeric code and message. The message
// is allocated with malloc and owned by the caller.
func setError(errOut *C.docindex_error, err error) {
	if errOut == nil {
		return
	}
	msg := err.Error()
	if e, ok := errors.As(err); ok {
		msg = e.Message
	}
	errOut.code = C.int32_t(errors.NumericCode(err))
	errOut.message = C.CString(msg)
}

func boolResult(ok bool) C.int {
	if ok {
		return 1
	}
	return 0
}

func createIndex(path, schemaJSON *C.char, errOut *C.docindex_error) C.int {
	return boolResult(call(errOut, func() error {
		return instance().CreateIndex(C.GoString(path), C.GoString(schemaJSON))
	}))
}

func openIndex(path *C.char, errOut *C.docindex_error) C.int {
	return boolResult(call(errOut, func() error {
		return instance().OpenIndex(C.GoString(path))
	}))
}

func indexExists(path *C.char, errOut *C.docindex_error) C.int {
	var exists bool
	call(errOut, func() error {
		var err error
		exists, err = instance().IndexExists(C.GoString(path))
		return err
	})
	return boolResult(exists)
}

func deleteIndex(path *C.char, errOut *C.docindex_error) C.int {
	return boolResult(call(errOut, func() error {
		return instance().DeleteIndex(C.GoString(path))
	}))
}

func openWriter(path *C.char, errOut *C.docindex_error) C.int64_t {
	var h int64
	call(errOut, func() error {
		var err error
		h, err = instance().OpenWriter(C.GoString(path))
		return err
	})
	return C.int64_t(h)
}

func addDocument(handle C.int64_t, document *C.char, errOut *C.docindex_error) {
	call(errOut, func() error {
		return instance().AddDocument(int64(handle), C.GoString(document))
	})
}

func commitWriter(handle C.int64_t, errOut *C.docindex_error) C.int32_t {
	if call(errOut, func() error {
		return instance().CommitWriter(int64(handle))
	}) {
		return 0
	}
	return -1
}

func closeWriter(handle C.int64_t, errOut *C.docindex_error) {
	call(errOut, func() error {
		return instance().CloseWriter(int64(handle))
	})
}

func shutdown(errOut *C.docindex_error) {
	call(errOut, func() error {
		return instance().Shutdown()
	})
}

func errorFree(e *C.docindex_error) {
	if e == nil {
		return
	}
	if e.message != nil {
		C.free(unsafe.Pointer(e.message))
		e.message = nil
	}
	e.code = 0
}

func abiVersion() C.int32_t {
	return C.int32_t(version.ABIVersion)
}
