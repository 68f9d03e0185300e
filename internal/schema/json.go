package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Aman-CERP/docindex/internal/errors"
)

// wireField is the declarative JSON layout of one field:
//
//	{"name": "title", "type": "text",
//	 "options": {"indexing": {"record": "position", "tokenizer": "default"}, "stored": true}}
type wireField struct {
	Name    string      `json:"name"`
	Type    FieldType   `json:"type"`
	Options wireOptions `json:"options"`
}

type wireOptions struct {
	Indexing *TextIndexing `json:"indexing,omitempty"`
	Indexed  flexBool      `json:"indexed,omitempty"`
	Stored   flexBool      `json:"stored"`
	Fast     flexBool      `json:"fast,omitempty"`
}

// flexBool accepts true/false, null, or any non-empty string or object as
// true. Some engines describe fast text fields by tokenizer name instead of
// a plain boolean.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")), bytes.Equal(data, []byte(`""`)):
		*b = false
	case bytes.Equal(data, []byte("true")):
		*b = true
	case len(data) > 0 && (data[0] == '"' || data[0] == '{'):
		*b = true
	default:
		return fmt.Errorf("expected boolean, got %s", data)
	}
	return nil
}

// ParseJSON parses a declarative schema description. Both a top-level array
// of fields and an object of the form {"fields": [...]} are accepted.
func ParseJSON(data []byte) (*Schema, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.ValidationError(errors.ErrCodeSchemaInvalid, "schema JSON is empty")
	}

	var wire []wireField
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, invalidJSON(err)
		}
	case '{':
		var obj struct {
			Fields []wireField `json:"fields"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, invalidJSON(err)
		}
		wire = obj.Fields
	default:
		return nil, errors.ValidationError(errors.ErrCodeSchemaInvalid,
			"invalid schema JSON: expected array or object")
	}

	fields := make([]Field, 0, len(wire))
	for _, w := range wire {
		fields = append(fields, Field{
			Name: w.Name,
			Type: w.Type,
			Options: Options{
				Indexing: w.Options.Indexing,
				Indexed:  bool(w.Options.Indexed),
				Stored:   bool(w.Options.Stored),
				Fast:     bool(w.Options.Fast),
			},
		})
	}
	return New(fields...)
}

// MarshalJSON emits the top-level array layout accepted by ParseJSON.
func (s *Schema) MarshalJSON() ([]byte, error) {
	wire := make([]wireField, 0, len(s.fields))
	for _, f := range s.fields {
		w := wireField{
			Name: f.Name,
			Type: f.Type,
			Options: wireOptions{
				Stored: flexBool(f.Options.Stored),
				Fast:   flexBool(f.Options.Fast),
			},
		}
		if f.Type == TypeText {
			w.Options.Indexing = f.Options.Indexing
		} else {
			w.Options.Indexed = flexBool(f.Options.Indexed)
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

func invalidJSON(err error) error {
	return errors.New(errors.ErrCodeSchemaInvalid, fmt.Sprintf("invalid schema JSON: %v", err), err)
}
