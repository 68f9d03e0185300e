package schema

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// analyzerFor maps a tokenizer name onto a registered bleve analyzer.
func analyzerFor(tokenizer string) (string, error) {
	switch tokenizer {
	case "", TokenizerDefault:
		return standard.Name, nil
	case TokenizerRaw:
		return keyword.Name, nil
	case TokenizerEnStem:
		return en.AnalyzerName, nil
	}
	return "", fmt.Errorf("unknown tokenizer %q", tokenizer)
}

// IndexMapping builds the bleve mapping for the schema. Only declared
// fields are indexed; dynamic fields are disabled so the engine never
// invents fields the schema does not name.
func (s *Schema) IndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name
	im.StoreDynamic = false
	im.IndexDynamic = false
	im.DocValuesDynamic = false

	dm := bleve.NewDocumentStaticMapping()
	for _, f := range s.fields {
		fm, err := fieldMapping(f)
		if err != nil {
			return nil, fieldErr(f.Name, err)
		}
		dm.AddFieldMappingsAt(f.Name, fm)
	}
	im.DefaultMapping = dm

	if err := im.Validate(); err != nil {
		return nil, fmt.Errorf("validate index mapping: %w", err)
	}
	return im, nil
}

func fieldMapping(f Field) (*mapping.FieldMapping, error) {
	var fm *mapping.FieldMapping
	switch f.Type {
	case TypeText:
		fm = bleve.NewTextFieldMapping()
		fm.Index = false
		if ix := f.Options.Indexing; ix != nil {
			analyzer, err := analyzerFor(ix.Tokenizer)
			if err != nil {
				return nil, err
			}
			fm.Index = true
			fm.Analyzer = analyzer
			fm.IncludeTermVectors = ix.Record == RecordPosition
			fm.SkipFreqNorm = ix.Record == RecordBasic
		}
	case TypeI64, TypeU64, TypeF64:
		fm = bleve.NewNumericFieldMapping()
		fm.Index = f.Options.Indexed
	case TypeBool:
		fm = bleve.NewBooleanFieldMapping()
		fm.Index = f.Options.Indexed
	case TypeDate:
		fm = bleve.NewDateTimeFieldMapping()
		fm.Index = f.Options.Indexed
	default:
		return nil, fmt.Errorf("unsupported field type %q", f.Type)
	}
	fm.Name = f.Name
	fm.Store = f.Options.Stored
	fm.DocValues = f.Options.Fast
	fm.IncludeInAll = false
	return fm, nil
}
