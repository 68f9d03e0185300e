// Package document converts raw JSON objects into typed documents that
// conform to a schema, and holds the typed document representation handed
// to the storage engine.
package document

import (
	"fmt"
	"time"
)

// Kind identifies the type of a typed value.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindI64
	KindU64
	KindF64
	KindBool
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is one typed field value. Only the member matching Kind is set.
type Value struct {
	Kind Kind

	text string
	i64  int64
	u64  uint64
	f64  float64
	b    bool
	date time.Time
}

// Constructors and accessors for each kind.
func TextValue(s string) Value { return Value{Kind: KindText, text: s} }
func I64Value(n int64) Value { return Value{Kind: KindI64, i64: n} }
func U64Value(n uint64) Value { return Value{Kind: KindU64, u64: n} }
func F64Value(f float64) Value { return Value{Kind: KindF64, f64: f} }
func BoolValue(b bool) Value { return Value{Kind: KindBool, b: b} }
func DateValue(t time.Time) Value { return Value{Kind: KindDate, date: t} }

func (v Value) Text() string { return v.text }
func (v Value) I64() int64 { return v.i64 }
func (v Value) U64() uint64 { return v.u64 }
func (v Value) F64() float64 { return v.f64 }
func (v Value) Bool() bool { return v.b }
func (v Value) Date() time.Time { return v.date }

// Interface returns the value as the native Go type the engine indexes.
func (v Value) Interface() any {
	switch v.Kind {
	case KindText:
		return v.text
	case KindI64:
		return v.i64
	case KindU64:
		return v.u64
	case KindF64:
		return v.f64
	case KindBool:
		return v.b
	case KindDate:
		return v.date
	}
	return nil
}

// FieldValue pairs a field name with one of its values.
type FieldValue struct {
	Field string
	Value Value
}

// Document is a schema-conformant record. A field may carry several values.
type Document struct {
	entries []FieldValue
}

// Add appends a value for field.
func (d *Document) Add(field string, v Value) {
	d.entries = append(d.entries, FieldValue{Field: field, Value: v})
}

// Values returns every value stored for field, in insertion order.
func (d *Document) Values(field string) []Value {
	var out []Value
	for _, e := range d.entries {
		if e.Field == field {
			out = append(out, e.Value)
		}
	}
	return out
}

// Fields returns the distinct field names present, in first-seen order.
func (d *Document) Fields() []string {
	seen := make(map[string]struct{}, len(d.entries))
	var names []string
	for _, e := range d.entries {
		if _, ok := seen[e.Field]; ok {
			continue
		}
		seen[e.Field] = struct{}{}
		names = append(names, e.Field)
	}
	return names
}

// Entries returns a copy of all field values.
func (d *Document) Entries() []FieldValue {
	out := make([]FieldValue, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the total number of values.
func (d *Document) Len() int {
	return len(d.entries)
}

// EngineFields renders the document as the field map bleve walks.
// Multi-valued fields become slices so the engine indexes each element.
func (d *Document) EngineFields() map[string]any {
	out := make(map[string]any, len(d.entries))
	for _, e := range d.entries {
		cur, ok := out[e.Field]
		if !ok {
			out[e.Field] = e.Value.Interface()
			continue
		}
		if list, isList := cur.([]any); isList {
			out[e.Field] = append(list, e.Value.Interface())
		} else {
			out[e.Field] = []any{cur, e.Value.Interface()}
		}
	}
	return out
}
