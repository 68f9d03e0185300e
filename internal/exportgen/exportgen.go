// Package exportgen renders the cgo export shims for libdocindex.
//
// Each boundary operation is exported once per symbol namespace. The shims
// are generated from one operation table so that every namespace has the
// same surface and forwards to the same implementation.
package exportgen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"
	"unicode"
)

// Param is one parameter of an exported function, with a cgo type.
type Param struct {
	Name string
	Type string
}

// Export describes one boundary operation.
type Export struct {
	// Name is the CamelCase operation name, e.g. "CreateIndex".
	Name string
	// Params are passed through unchanged to Impl.
	Params []Param
	// Result is the cgo return type. Empty means void.
	Result string
	// Impl is the unexported Go function that implements the operation.
	Impl string
	// Doc is a one-line description placed above the shim.
	Doc string
}

// Signature renders the parameter list.
func (e Export) Signature() string {
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = p.Name + " " + p.Type
	}
	return strings.Join(parts, ", ")
}

// Args renders the argument list forwarded to Impl.
func (e Export) Args() string {
	names := make([]string, len(e.Params))
	for i, p := range e.Params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// Namespace is a family of exported symbol names.
type Namespace struct {
	Name   string
	Prefix string
	// Snake selects snake_case operation names after Prefix.
	Snake bool
}

// Symbol returns the exported symbol for an operation.
func (n Namespace) Symbol(op string) string {
	if n.Snake {
		return n.Prefix + SnakeCase(op)
	}
	return n.Prefix + op
}

// Namespaces lists the symbol families libdocindex exports.
func Namespaces() []Namespace {
	return []Namespace{
		{Name: "snake", Prefix: "docindex_", Snake: true},
		{Name: "camel", Prefix: "DocIndex"},
	}
}

const (
	cString = "*C.char"
	cError  = "*C.docindex_error"
	cHandle = "C.int64_t"
)

// Exports lists the boundary operations in header order.
func Exports() []Export {
	errOut := Param{Name: "errOut", Type: cError}
	path := Param{Name: "path", Type: cString}
	h := Param{Name: "handle", Type: cHandle}

	return []Export{
		{Name: "CreateIndex", Params: []Param{path, {Name: "schemaJSON", Type: cString}, errOut}, Result: "C.int", Impl: "createIndex",
			Doc: "creates an index at path from a JSON schema. Returns 1 on success."},
		{Name: "OpenIndex", Params: []Param{path, errOut}, Result: "C.int", Impl: "openIndex",
			Doc: "checks that path holds a readable index. Returns 1 on success."},
		{Name: "IndexExists", Params: []Param{path, errOut}, Result: "C.int", Impl: "indexExists",
			Doc: "returns 1 if path holds an index, 0 otherwise."},
		{Name: "DeleteIndex", Params: []Param{path, errOut}, Result: "C.int", Impl: "deleteIndex",
			Doc: "removes the index at path. Returns 1 on success."},
		{Name: "OpenWriter", Params: []Param{path, errOut}, Result: cHandle, Impl: "openWriter",
			Doc: "opens a writer and returns its handle, or 0 on failure."},
		{Name: "AddDocument", Params: []Param{h, {Name: "document", Type: cString}, errOut}, Impl: "addDocument",
			Doc: "buffers one JSON document in the writer."},
		{Name: "CommitWriter", Params: []Param{h, errOut}, Result: "C.int32_t", Impl: "commitWriter",
			Doc: "makes buffered documents durable. Returns 0 on success, -1 on failure."},
		{Name: "CloseWriter", Params: []Param{h, errOut}, Impl: "closeWriter",
			Doc: "discards uncommitted documents and invalidates the handle."},
		{Name: "ErrorFree", Params: []Param{{Name: "err", Type: cError}}, Impl: "errorFree",
			Doc: "releases the message owned by err and resets it."},
		{Name: "Shutdown", Params: []Param{errOut}, Impl: "shutdown",
			Doc: "closes every open writer."},
		{Name: "AbiVersion", Result: "C.int32_t", Impl: "abiVersion",
			Doc: "returns the revision of this interface."},
	}
}

// SnakeCase converts a CamelCase identifier to snake_case.
func SnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

var shimTemplate = template.Must(template.New("exports").Parse(`// Code generated by exportgen. DO NOT EDIT.

package main

/*
#include "docindex.h"
*/
import "C"
{{range $ns := .Namespaces}}
// {{$ns.Name}} namespace
{{range $.Exports}}
// {{$ns.Symbol .Name}} {{.Doc}}
//
//export {{$ns.Symbol .Name}}
func {{$ns.Symbol .Name}}({{.Signature}}){{if .Result}} {{.Result}}{{end}} {
	{{if .Result}}return {{end}}{{.Impl}}({{.Args}})
}
{{end}}{{end}}`))

// Generate writes gofmt-formatted shims for every namespace and export.
func Generate(w io.Writer, namespaces []Namespace, exports []Export) error {
	seen := make(map[string]bool)
	for _, ns := range namespaces {
		for _, e := range exports {
			sym := ns.Symbol(e.Name)
			if seen[sym] {
				return fmt.Errorf("duplicate exported symbol %s", sym)
			}
			seen[sym] = true
		}
	}

	var buf bytes.Buffer
	err := shimTemplate.Execute(&buf, struct {
		Namespaces []Namespace
		Exports    []Export
	}{namespaces, exports})
	if err != nil {
		return fmt.Errorf("render exports: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format exports: %w", err)
	}
	_, err = w.Write(src)
	return err
}
