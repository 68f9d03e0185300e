package schema

// Flag selects indexing and storage behaviour for Builder methods.
type Flag uint8

const (
	// Indexed makes a field searchable.
	Indexed Flag = 1 << iota
	// Stored keeps the original value retrievable.
	Stored
	// Fast enables column-oriented doc values.
	Fast
	// Text indexes a text field with the default tokenizer and positions.
	Text
	// String indexes a text field untokenized.
	String
)

func (f Flag) has(o Flag) bool { return f&o != 0 }

// Builder accumulates fields in order. Errors surface from Build.
type Builder struct {
	fields []Field
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddText adds a text field.
func (b *Builder) AddText(name string, flags Flag) *Builder {
	opts := Options{Stored: flags.has(Stored), Fast: flags.has(Fast)}
	switch {
	case flags.has(String):
		opts.Indexing = &TextIndexing{Record: RecordBasic, Tokenizer: TokenizerRaw}
	case flags.has(Text), flags.has(Indexed):
		opts.Indexing = &TextIndexing{Record: RecordPosition, Tokenizer: TokenizerDefault}
	}
	return b.add(name, TypeText, opts)
}

// AddTextWithIndexing adds a text field with explicit indexing options.
func (b *Builder) AddTextWithIndexing(name string, indexing *TextIndexing, flags Flag) *Builder {
	return b.add(name, TypeText, Options{
		Indexing: indexing,
		Stored:   flags.has(Stored),
		Fast:     flags.has(Fast),
	})
}

// AddI64 adds a signed integer field.
func (b *Builder) AddI64(name string, flags Flag) *Builder {
	return b.add(name, TypeI64, scalarOptions(flags))
}

// AddU64 adds an unsigned integer field.
func (b *Builder) AddU64(name string, flags Flag) *Builder {
	return b.add(name, TypeU64, scalarOptions(flags))
}

// AddF64 adds a floating-point field.
func (b *Builder) AddF64(name string, flags Flag) *Builder {
	return b.add(name, TypeF64, scalarOptions(flags))
}

// AddBool adds a boolean field.
func (b *Builder) AddBool(name string, flags Flag) *Builder {
	return b.add(name, TypeBool, scalarOptions(flags))
}

// AddDate adds an RFC 3339 date field.
func (b *Builder) AddDate(name string, flags Flag) *Builder {
	return b.add(name, TypeDate, scalarOptions(flags))
}

// Build validates the accumulated fields.
func (b *Builder) Build() (*Schema, error) {
	return New(b.fields...)
}

func (b *Builder) add(name string, t FieldType, opts Options) *Builder {
	b.fields = append(b.fields, Field{Name: name, Type: t, Options: opts})
	return b
}

func scalarOptions(flags Flag) Options {
	return Options{
		Indexed: flags.has(Indexed),
		Stored:  flags.has(Stored),
		Fast:    flags.has(Fast),
	}
}
