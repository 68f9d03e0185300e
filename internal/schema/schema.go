// Package schema defines the ordered, typed field set an index is created
// with, its declarative JSON form, and its translation into a bleve mapping.
//
// A Schema is immutable once built. Construct one with a Builder or parse a
// JSON description with ParseJSON, then pass it by reference to the index
// and document packages.
package schema

import (
	"fmt"

	"github.com/Aman-CERP/docindex/internal/errors"
)

// FieldType is the value type a field accepts.
type FieldType string

const (
	TypeText FieldType = "text"
	TypeI64  FieldType = "i64"
	TypeU64  FieldType = "u64"
	TypeF64  FieldType = "f64"
	TypeBool FieldType = "bool"
	TypeDate FieldType = "date"
)

// Valid reports whether t is a supported field type.
func (t FieldType) Valid() bool {
	switch t {
	case TypeText, TypeI64, TypeU64, TypeF64, TypeBool, TypeDate:
		return true
	}
	return false
}

// Numeric reports whether t holds numbers.
func (t FieldType) Numeric() bool {
	return t == TypeI64 || t == TypeU64 || t == TypeF64
}

// RecordOption controls how much postings information a text field keeps.
type RecordOption string

const (
	RecordBasic    RecordOption = "basic"
	RecordFreq     RecordOption = "freq"
	RecordPosition RecordOption = "position"
)

// Tokenizer names accepted in text indexing options.
const (
	TokenizerDefault = "default"
	TokenizerRaw     = "raw"
	TokenizerEnStem  = "en_stem"
)

// TextIndexing configures how a text field is indexed.
// A nil *TextIndexing means the text field is stored only.
type TextIndexing struct {
	Record    RecordOption `json:"record"`
	Tokenizer string       `json:"tokenizer,omitempty"`
}

// Options carries per-field indexing and storage flags.
type Options struct {
	// Indexing applies to text fields only.
	Indexing *TextIndexing
	// Indexed applies to non-text fields only.
	Indexed bool
	Stored  bool
	Fast    bool
}

// Field is a single named, typed field definition.
type Field struct {
	Name    string
	Type    FieldType
	Options Options
}

// IsIndexed reports whether the field is searchable.
func (f Field) IsIndexed() bool {
	if f.Type == TypeText {
		return f.Options.Indexing != nil
	}
	return f.Options.Indexed
}

// Schema is an ordered set of uniquely named fields.
type Schema struct {
	fields []Field
	byName map[string]int
}

// New validates fields and returns a Schema preserving their order.
func New(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, errors.ValidationError(errors.ErrCodeSchemaInvalid,
			"schema must declare at least one field")
	}

	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := validateField(f); err != nil {
			return nil, err
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, errors.ValidationError(errors.ErrCodeSchemaInvalid,
				fmt.Sprintf("duplicate field name: %s", f.Name)).
				WithDetail("field", f.Name)
		}
		f.Options = normalizeOptions(f)
		s.byName[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// Fields returns a copy of the field definitions in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

func validateField(f Field) error {
	if f.Name == "" {
		return errors.ValidationError(errors.ErrCodeSchemaInvalid, "field name cannot be empty")
	}
	if !f.Type.Valid() {
		return errors.ValidationError(errors.ErrCodeSchemaInvalid,
			fmt.Sprintf("unsupported field type %q for field %s", f.Type, f.Name)).
			WithDetail("field", f.Name)
	}
	if f.Type != TypeText && f.Options.Indexing != nil {
		return errors.ValidationError(errors.ErrCodeSchemaInvalid,
			fmt.Sprintf("field %s: text indexing options on a %s field", f.Name, f.Type)).
			WithDetail("field", f.Name)
	}
	if ix := f.Options.Indexing; ix != nil {
		if _, err := normalizeRecord(ix.Record); err != nil {
			return fieldErr(f.Name, err)
		}
		if _, err := analyzerFor(ix.Tokenizer); err != nil {
			return fieldErr(f.Name, err)
		}
	}
	return nil
}

func normalizeOptions(f Field) Options {
	opts := f.Options
	if f.Type == TypeText {
		opts.Indexed = false
		if ix := opts.Indexing; ix != nil {
			rec, _ := normalizeRecord(ix.Record)
			tok := ix.Tokenizer
			if tok == "" {
				tok = TokenizerDefault
			}
			opts.Indexing = &TextIndexing{Record: rec, Tokenizer: tok}
		}
	}
	return opts
}

// normalizeRecord accepts the short record names and the long forms some
// hosts send ("WithFreqs", "WithFreqsAndPositions").
func normalizeRecord(r RecordOption) (RecordOption, error) {
	switch r {
	case "", RecordBasic:
		return RecordBasic, nil
	case RecordFreq, "WithFreqs":
		return RecordFreq, nil
	case RecordPosition, "WithFreqsAndPositions":
		return RecordPosition, nil
	}
	return "", fmt.Errorf("unknown index record option %q", r)
}

func fieldErr(name string, err error) error {
	return errors.New(errors.ErrCodeSchemaInvalid,
		fmt.Sprintf("field %s: %v", name, err), err).
		WithDetail("field", name)
}
