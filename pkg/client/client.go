// Package client loads libdocindex at runtime with purego and exposes its
// C interface as Go methods, without cgo in the calling program.
//
//	lib, err := client.Open("/usr/local/lib/libdocindex.so")
//	if err != nil { ... }
//	defer lib.Close()
//	h, err := lib.OpenWriter("/data/articles")
//
// Errors crossing the boundary are rebuilt as *errors.Error values with the
// same code the library reported.
package client

import (
	"fmt"

	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/exportgen"
	"github.com/Aman-CERP/docindex/pkg/version"
)

// cError mirrors docindex_error on 64-bit platforms.
type cError struct {
	Code    int32
	_       [4]byte
	Message uintptr
}

// Option configures Open.
type Option func(*options)

type options struct {
	namespace exportgen.Namespace
}

// WithCamelCase binds the DocIndexCamelCase symbols instead of the
// docindex_snake_case ones.
func WithCamelCase() Option {
	return func(o *options) { o.namespace = exportgen.Namespaces()[1] }
}

// Library is a loaded libdocindex.
type Library struct {
	path   string
	handle uintptr

	createIndex  func(path, schemaJSON string, errOut *cError) int32
	openIndex    func(path string, errOut *cError) int32
	indexExists  func(path string, errOut *cError) int32
	deleteIndex  func(path string, errOut *cError) int32
	openWriter   func(path string, errOut *cError) int64
	addDocument  func(handle int64, document string, errOut *cError)
	commitWriter func(handle int64, errOut *cError) int32
	closeWriter  func(handle int64, errOut *cError)
	errorFree    func(err *cError)
	shutdown     func(errOut *cError)
	abiVersion   func() int32
}

// bindings pairs each operation with the field receiving its function.
func (l *Library) bindings() map[string]any {
	return map[string]any{
		"CreateIndex":  &l.createIndex,
		"OpenIndex":    &l.openIndex,
		"IndexExists":  &l.indexExists,
		"DeleteIndex":  &l.deleteIndex,
		"OpenWriter":   &l.openWriter,
		"AddDocument":  &l.addDocument,
		"CommitWriter": &l.commitWriter,
		"CloseWriter":  &l.closeWriter,
		"ErrorFree":    &l.errorFree,
		"Shutdown":     &l.shutdown,
		"AbiVersion":   &l.abiVersion,
	}
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string { return l.path }

// CreateIndex creates an index at path from a JSON schema description.
func (l *Library) CreateIndex(path, schemaJSON string) error {
	var e cError
	l.createIndex(path, schemaJSON, &e)
	return l.take(&e)
}

// OpenIndex checks that path holds a readable index.
func (l *Library) OpenIndex(path string) error {
	var e cError
	l.openIndex(path, &e)
	return l.take(&e)
}

// IndexExists reports whether path holds an index.
func (l *Library) IndexExists(path string) (bool, error) {
	var e cError
	exists := l.indexExists(path, &e)
	if err := l.take(&e); err != nil {
		return false, err
	}
	return exists == 1, nil
}

// DeleteIndex removes the index at path.
func (l *Library) DeleteIndex(path string) error {
	var e cError
	l.deleteIndex(path, &e)
	return l.take(&e)
}

// OpenWriter opens a writer and returns its handle.
func (l *Library) OpenWriter(path string) (int64, error) {
	var e cError
	h := l.openWriter(path, &e)
	if err := l.take(&e); err != nil {
		return 0, err
	}
	return h, nil
}

// AddDocument buffers one JSON document.
func (l *Library) AddDocument(h int64, doc string) error {
	var e cError
	l.addDocument(h, doc, &e)
	return l.take(&e)
}

// CommitWriter makes buffered documents durable.
func (l *Library) CommitWriter(h int64) error {
	var e cError
	if rc := l.commitWriter(h, &e); rc != 0 {
		if err := l.take(&e); err != nil {
			return err
		}
		return errors.Newf(errors.ErrCodeInternal, "commit returned %d without an error", rc)
	}
	return l.take(&e)
}

// CloseWriter discards uncommitted documents and invalidates h.
func (l *Library) CloseWriter(h int64) error {
	var e cError
	l.closeWriter(h, &e)
	return l.take(&e)
}

// Shutdown closes every writer the library holds.
func (l *Library) Shutdown() error {
	var e cError
	l.shutdown(&e)
	return l.take(&e)
}

// ABIVersion returns the interface revision the library was built with.
func (l *Library) ABIVersion() int {
	return int(l.abiVersion())
}

// take converts and frees an error filled in by the library.
func (l *Library) take(e *cError) error {
	if e.Code == 0 {
		if e.Message != 0 {
			l.errorFree(e)
		}
		return nil
	}
	// error_free zeroes the struct, so copy it out first.
	code, msg := int(e.Code), goString(e.Message)
	l.errorFree(e)
	return errors.FromNumeric(code, msg)
}

func (l *Library) checkABI() error {
	if got := l.ABIVersion(); got != version.ABIVersion {
		return errors.Newf(errors.ErrCodeConfigInvalid,
			"%s has interface revision %d, this client expects %d", l.path, got, version.ABIVersion).
			WithSuggestion("rebuild libdocindex from the same release as this client")
	}
	return nil
}

func symbolError(path, sym string, err error) error {
	return errors.New(errors.ErrCodeConfigInvalid,
		fmt.Sprintf("%s does not export %s: %v", path, sym, err), err)
}
