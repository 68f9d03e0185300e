package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/schema"
)

// Map parses raw as a JSON object and converts it into a Document
// conforming to s. Unknown keys and type-incompatible values fail the whole
// document. Schema fields absent from raw are omitted.
func Map(s *schema.Schema, raw string) (*Document, error) {
	return MapBytes(s, []byte(raw))
}

// MapBytes is Map for a byte slice.
func MapBytes(s *schema.Schema, raw []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.New(errors.ErrCodeJSONParse, err.Error(), err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.ValidationError(errors.ErrCodeJSONParse,
			"unexpected data after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.ValidationError(errors.ErrCodeJSONParse, "expected object")
	}

	// Sorted keys make the first reported failure independent of map order.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := &Document{entries: make([]FieldValue, 0, len(keys))}
	for _, key := range keys {
		field, ok := s.Field(key)
		if !ok {
			return nil, errors.ValidationError(errors.ErrCodeFieldNotFound,
				fmt.Sprintf("field not found: %s", key)).
				WithDetail("field", key)
		}

		if arr, isArr := obj[key].([]any); isArr {
			for _, item := range arr {
				if err := addValue(doc, field, item); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := addValue(doc, field, obj[key]); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ClassifyNumber picks the integer representation when n is exactly
// representable as an int64, and the floating-point one otherwise.
func ClassifyNumber(n json.Number) (Value, error) {
	lit := n.String()
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return I64Value(i), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("invalid number %s", lit)
	}
	return F64Value(f), nil
}

func addValue(doc *Document, field schema.Field, v any) error {
	var (
		val Value
		err error
	)
	switch x := v.(type) {
	case string:
		val, err = textValue(field, x)
	case bool:
		if field.Type != schema.TypeBool {
			return mismatch(field, "bool")
		}
		val = BoolValue(x)
	case json.Number:
		val, err = numberValue(field, x)
	default:
		return typeError(field, "unsupported field value type")
	}
	if err != nil {
		return err
	}
	doc.Add(field.Name, val)
	return nil
}

func textValue(field schema.Field, s string) (Value, error) {
	switch field.Type {
	case schema.TypeText:
		return TextValue(s), nil
	case schema.TypeDate:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return Value{}, typeError(field, fmt.Sprintf("field %s expects an RFC 3339 date, got %q", field.Name, s))
		}
		return DateValue(t.UTC()), nil
	}
	return Value{}, mismatch(field, "string")
}

func numberValue(field schema.Field, n json.Number) (Value, error) {
	switch field.Type {
	case schema.TypeU64:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return Value{}, typeError(field, fmt.Sprintf("field %s expects an unsigned integer, got %s", field.Name, n))
		}
		return U64Value(u), nil
	case schema.TypeI64, schema.TypeF64:
	default:
		return Value{}, mismatch(field, "number")
	}

	val, err := ClassifyNumber(n)
	if err != nil {
		return Value{}, typeError(field, err.Error())
	}
	if field.Type == schema.TypeF64 {
		if val.Kind == KindI64 {
			return F64Value(float64(val.i64)), nil
		}
		return val, nil
	}
	if val.Kind != KindI64 {
		return Value{}, typeError(field, fmt.Sprintf("field %s expects an integer in int64 range, got %s", field.Name, n))
	}
	return val, nil
}

func mismatch(field schema.Field, got string) error {
	return typeError(field, fmt.Sprintf("field %s expects %s, got %s", field.Name, field.Type, got))
}

func typeError(field schema.Field, msg string) error {
	return errors.ValidationError(errors.ErrCodeFieldType, msg).WithDetail("field", field.Name)
}
