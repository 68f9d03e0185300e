package index

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/schema"
)

const (
	// MetaFile is the engine metadata marker whose presence means an index
	// exists at a path.
	MetaFile = "index_meta.json"

	// schemaKey is the engine-internal key holding the schema JSON.
	schemaKey = "docindex.schema"
)

// Option configures Create and Open.
type Option func(*options)

type options struct {
	openTimeout time.Duration
	logger      *slog.Logger
}

// WithOpenTimeout bounds how long Open waits for the engine's on-disk lock.
// Zero waits indefinitely.
func WithOpenTimeout(d time.Duration) Option {
	return func(o *options) { o.openTimeout = d }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Index is an open engine instance bound to the schema it was created with.
type Index struct {
	path   string
	engine bleve.Index
	schema *schema.Schema
}

// Create initializes a new index at path with schema s, creating parent
// directories as needed. It fails with ERR_301 if an index already exists.
func Create(path string, s *schema.Schema, opts ...Option) error {
	o := applyOptions(opts)

	if s == nil {
		return errors.ValidationError(errors.ErrCodeSchemaInvalid, "schema is required")
	}
	if markerExists(path) {
		return errors.Newf(errors.ErrCodeIndexExists, "index already exists at path: %s", path).
			WithDetail("path", path).
			WithSuggestion("open the existing index or delete it first")
	}

	im, err := s.IndexMapping()
	if err != nil {
		return errors.New(errors.ErrCodeSchemaInvalid, err.Error(), err)
	}
	schemaJSON, err := json.Marshal(s)
	if err != nil {
		return errors.InternalError("encode schema", err)
	}

	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755); err != nil {
		return errors.IOError(fmt.Sprintf("create parent directory for %s: %v", path, err), err)
	}
	if err := clearEmptyDir(path); err != nil {
		return err
	}

	engine, err := bleve.New(path, im)
	if err != nil {
		if stderrors.Is(err, bleve.ErrorIndexPathExists) {
			return errors.Newf(errors.ErrCodeIndexExists, "index already exists at path: %s", path).
				WithDetail("path", path)
		}
		return errors.IOError(fmt.Sprintf("create index at %s: %v", path, err), err)
	}

	if err := engine.SetInternal([]byte(schemaKey), schemaJSON); err != nil {
		_ = engine.Close()
		_ = os.RemoveAll(path)
		return errors.IOError(fmt.Sprintf("store schema for %s: %v", path, err), err)
	}
	if err := engine.Close(); err != nil {
		return errors.IOError(fmt.Sprintf("close new index at %s: %v", path, err), err)
	}

	o.logger.Info("index_created",
		slog.String("path", path),
		slog.Int("fields", s.Len()))
	return nil
}

// Open opens an existing index and recovers its schema.
func Open(path string, opts ...Option) (*Index, error) {
	o := applyOptions(opts)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, notFound(path)
	}
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("stat %s: %v", path, err), err)
	}
	if !info.IsDir() || !markerExists(path) {
		return nil, notFound(path)
	}

	if err := validateMeta(path); err != nil {
		o.logger.Warn("index_meta_corrupt",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, errors.New(errors.ErrCodeCorruptIndex, err.Error(), err).WithDetail("path", path)
	}

	runtimeConfig := map[string]interface{}{}
	if o.openTimeout > 0 {
		runtimeConfig["bolt_timeout"] = o.openTimeout.String()
	}
	engine, err := bleve.OpenUsing(path, runtimeConfig)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	s, err := loadSchema(engine)
	if err != nil {
		_ = engine.Close()
		if e, ok := errors.As(err); ok {
			e.WithDetail("path", path)
		}
		return nil, err
	}

	o.logger.Debug("index_opened", slog.String("path", path))
	return &Index{path: path, engine: engine, schema: s}, nil
}

// Exists reports whether path holds an index. It never fails.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return markerExists(path)
}

// Delete removes the index directory. A missing path is not an error.
func Delete(path string, opts ...Option) error {
	o := applyOptions(opts)

	if err := os.RemoveAll(path); err != nil {
		return errors.IOError(fmt.Sprintf("delete index at %s: %v", path, err), err)
	}
	o.logger.Info("index_deleted", slog.String("path", path))
	return nil
}

// Path returns the index root directory.
func (i *Index) Path() string { return i.path }

// Schema returns the schema the index was created with.
func (i *Index) Schema() *schema.Schema { return i.schema }

// Engine exposes the underlying bleve index.
func (i *Index) Engine() bleve.Index { return i.engine }

// NewBatch starts an empty engine batch.
func (i *Index) NewBatch() *bleve.Batch { return i.engine.NewBatch() }

// ApplyBatch executes b against the engine and waits for it to persist.
func (i *Index) ApplyBatch(b *bleve.Batch) error {
	if err := i.engine.Batch(b); err != nil {
		return errors.EngineError(fmt.Sprintf("apply batch to %s: %v", i.path, err), err)
	}
	return nil
}

// DocCount returns the number of committed documents.
func (i *Index) DocCount() (uint64, error) {
	n, err := i.engine.DocCount()
	if err != nil {
		return 0, errors.EngineError(fmt.Sprintf("count documents in %s: %v", i.path, err), err)
	}
	return n, nil
}

// Close releases the engine and its on-disk lock.
func (i *Index) Close() error {
	if err := i.engine.Close(); err != nil {
		return errors.EngineError(fmt.Sprintf("close index %s: %v", i.path, err), err)
	}
	return nil
}

func notFound(path string) *errors.Error {
	return errors.Newf(errors.ErrCodeIndexNotFound, "index not found at path: %s", path).
		WithDetail("path", path)
}

func markerExists(path string) bool {
	_, err := os.Stat(filepath.Join(path, MetaFile))
	return err == nil
}

// clearEmptyDir removes path if it is an empty directory so the engine can
// create it. Anything else already at path is refused.
func clearEmptyDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.IOError(fmt.Sprintf("stat %s: %v", path, err), err)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrCodeIO, "path exists and is not a directory: %s", path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("read %s: %v", path, err), err)
	}
	if len(entries) > 0 {
		return errors.Newf(errors.ErrCodeIO, "path exists and is not an index: %s", path).
			WithSuggestion("choose an empty or missing directory")
	}
	if err := os.Remove(path); err != nil {
		return errors.IOError(fmt.Sprintf("prepare %s: %v", path, err), err)
	}
	return nil
}

// validateMeta checks that the metadata marker is non-empty JSON.
func validateMeta(path string) error {
	metaPath := filepath.Join(path, MetaFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", MetaFile, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%s is empty (corrupted)", MetaFile)
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("%s is corrupt: %w", MetaFile, err)
	}
	return nil
}

func loadSchema(engine bleve.Index) (*schema.Schema, error) {
	data, err := engine.GetInternal([]byte(schemaKey))
	if err != nil {
		return nil, errors.EngineError(fmt.Sprintf("read stored schema: %v", err), err)
	}
	if len(data) == 0 {
		return nil, errors.ValidationError(errors.ErrCodeSchemaMissing, "index has no stored schema")
	}
	s, err := schema.ParseJSON(data)
	if err != nil {
		return nil, errors.New(errors.ErrCodeCorruptIndex, fmt.Sprintf("stored schema is unreadable: %v", err), err)
	}
	return s, nil
}

func classifyOpenError(path string, err error) error {
	switch {
	case stderrors.Is(err, bleve.ErrorIndexPathDoesNotExist), stderrors.Is(err, bleve.ErrorIndexMetaMissing):
		return notFound(path)
	case isCorruptionError(err):
		return errors.New(errors.ErrCodeCorruptIndex, fmt.Sprintf("index at %s is corrupt: %v", path, err), err).
			WithDetail("path", path)
	case strings.Contains(err.Error(), "timeout"):
		return errors.New(errors.ErrCodeIndexLocked, fmt.Sprintf("index at %s is locked by another writer", path), err).
			WithDetail("path", path)
	}
	return errors.IOError(fmt.Sprintf("open index at %s: %v", path, err), err)
}

// isCorruptionError checks if an engine error indicates on-disk corruption.
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, bleve.ErrorIndexMetaCorrupt) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unexpected end of JSON") ||
		strings.Contains(msg, "error parsing mapping JSON") ||
		strings.Contains(msg, "failed to load segment") ||
		strings.Contains(msg, "invalid database")
}
