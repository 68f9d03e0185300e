package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/docindex/internal/errors"
)

func articleSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewBuilder().
		AddI64("id", Indexed|Stored).
		AddText("title", Text|Stored).
		AddText("content", Text).
		AddText("url", String|Stored).
		AddF64("rating", Stored).
		AddBool("published", Stored).
		AddDate("created", Indexed|Fast).
		Build()
	require.NoError(t, err)
	return s
}

func TestBuilder_PreservesOrderAndOptions(t *testing.T) {
	s := articleSchema(t)

	assert.Equal(t, []string{"id", "title", "content", "url", "rating", "published", "created"}, s.Names())
	assert.Equal(t, 7, s.Len())

	title, ok := s.Field("title")
	require.True(t, ok)
	assert.Equal(t, TypeText, title.Type)
	require.NotNil(t, title.Options.Indexing)
	assert.Equal(t, RecordPosition, title.Options.Indexing.Record)
	assert.Equal(t, TokenizerDefault, title.Options.Indexing.Tokenizer)
	assert.True(t, title.Options.Stored)

	url, _ := s.Field("url")
	assert.Equal(t, TokenizerRaw, url.Options.Indexing.Tokenizer)
	assert.Equal(t, RecordBasic, url.Options.Indexing.Record)

	rating, _ := s.Field("rating")
	assert.False(t, rating.IsIndexed())

	_, ok = s.Field("missing")
	assert.False(t, ok)
}

func TestNew_RejectsInvalidSchemas(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		want   string
	}{
		{name: "no fields", fields: nil, want: "at least one field"},
		{name: "empty name", fields: []Field{{Name: "", Type: TypeText}}, want: "name cannot be empty"},
		{name: "unknown type", fields: []Field{{Name: "blob", Type: "bytes"}}, want: "unsupported field type"},
		{
			name:   "duplicate name",
			fields: []Field{{Name: "id", Type: TypeI64}, {Name: "id", Type: TypeText}},
			want:   "duplicate field name: id",
		},
		{
			name:   "indexing on numeric",
			fields: []Field{{Name: "id", Type: TypeI64, Options: Options{Indexing: &TextIndexing{}}}},
			want:   "text indexing options",
		},
		{
			name:   "unknown tokenizer",
			fields: []Field{{Name: "t", Type: TypeText, Options: Options{Indexing: &TextIndexing{Tokenizer: "klingon"}}}},
			want:   "unknown tokenizer",
		},
		{
			name:   "unknown record",
			fields: []Field{{Name: "t", Type: TypeText, Options: Options{Indexing: &TextIndexing{Record: "everything"}}}},
			want:   "unknown index record option",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, errors.HasCode(err, errors.ErrCodeSchemaInvalid))
		})
	}
}

func TestParseJSON_ArrayLayout(t *testing.T) {
	// Given: the engine-native array layout
	data := []byte(`[
		{"name": "title", "type": "text",
		 "options": {"indexing": {"record": "position"}, "stored": true}},
		{"name": "id", "type": "i64", "options": {"indexed": true, "stored": true, "fast": false}},
		{"name": "slug", "type": "text", "options": {"indexing": null, "stored": true, "fast": "raw"}}
	]`)

	// When: parsing
	s, err := ParseJSON(data)
	require.NoError(t, err)

	// Then: fields are in order with defaults filled in
	assert.Equal(t, []string{"title", "id", "slug"}, s.Names())
	title, _ := s.Field("title")
	assert.Equal(t, TokenizerDefault, title.Options.Indexing.Tokenizer)
	id, _ := s.Field("id")
	assert.True(t, id.Options.Indexed)
	slug, _ := s.Field("slug")
	assert.Nil(t, slug.Options.Indexing)
	assert.True(t, slug.Options.Fast)
}

func TestParseJSON_ObjectLayoutAndLongRecordNames(t *testing.T) {
	data := []byte(`{"fields": [
		{"name": "body", "type": "text", "options": {"indexing": {"record": "WithFreqsAndPositions", "tokenizer": "en_stem"}}}
	]}`)

	s, err := ParseJSON(data)
	require.NoError(t, err)

	body, _ := s.Field("body")
	assert.Equal(t, RecordPosition, body.Options.Indexing.Record)
	assert.Equal(t, TokenizerEnStem, body.Options.Indexing.Tokenizer)
}

func TestParseJSON_RejectsMalformedInput(t *testing.T) {
	for name, data := range map[string]string{
		"empty":      "",
		"scalar":     "42",
		"truncated":  `[{"name": "title"`,
		"bad option": `[{"name": "a", "type": "bool", "options": {"stored": 3}}]`,
		"empty list": `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(data))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeSchemaInvalid))
		})
	}
}

func TestMarshalJSON_ParsesBackToSameSchema(t *testing.T) {
	s := articleSchema(t)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	parsed, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, s.Fields(), parsed.Fields())
}

func TestIndexMapping_DeclaresEveryField(t *testing.T) {
	s := articleSchema(t)

	im, err := s.IndexMapping()
	require.NoError(t, err)

	assert.False(t, im.IndexDynamic)
	assert.False(t, im.StoreDynamic)
	require.NotNil(t, im.DefaultMapping)
	for _, name := range s.Names() {
		props, ok := im.DefaultMapping.Properties[name]
		require.True(t, ok, "field %s missing from mapping", name)
		require.Len(t, props.Fields, 1)
	}

	title := im.DefaultMapping.Properties["title"].Fields[0]
	assert.Equal(t, "text", title.Type)
	assert.True(t, title.IncludeTermVectors)
	assert.True(t, title.Store)

	url := im.DefaultMapping.Properties["url"].Fields[0]
	assert.Equal(t, "keyword", url.Analyzer)

	id := im.DefaultMapping.Properties["id"].Fields[0]
	assert.Equal(t, "number", id.Type)
	assert.True(t, id.Index)

	created := im.DefaultMapping.Properties["created"].Fields[0]
	assert.Equal(t, "datetime", created.Type)
	assert.True(t, created.DocValues)
}

func TestCache_ReusesParsedSchema(t *testing.T) {
	c := NewCache(2)
	data := []byte(`[{"name": "title", "type": "text", "options": {"stored": true}}]`)

	first, err := c.Parse(data)
	require.NoError(t, err)
	second, err := c.Parse(data)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	_, err = c.Parse([]byte(`[`))
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())
}
