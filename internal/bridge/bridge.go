// Package bridge is the Go side of the foreign-function boundary. Every
// exported C function is a thin shim over one Bridge method, so the
// boundary rules live here where they can be tested without cgo:
//
//   - every path is validated before it reaches the filesystem
//   - schema and document payloads are size-checked before parsing
//   - writers are addressed by opaque handles from a generation-checked table
//   - failures come back as *errors.Error carrying a stable numeric code
package bridge

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Aman-CERP/docindex/internal/config"
	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/handle"
	"github.com/Aman-CERP/docindex/internal/index"
	"github.com/Aman-CERP/docindex/internal/pathguard"
	"github.com/Aman-CERP/docindex/internal/schema"
	"github.com/Aman-CERP/docindex/internal/writer"
)

// Limits bounds the inputs accepted from the host.
type Limits struct {
	MaxPathChars     int
	MaxSchemaBytes   int
	MaxDocumentBytes int
}

// Options configures a Bridge.
type Options struct {
	Limits          Limits
	MemoryBudget    int64
	OpenTimeout     time.Duration
	SchemaCacheSize int
	Logger          *slog.Logger
}

// DefaultOptions returns the standard limits.
func DefaultOptions() Options {
	return OptionsFromConfig(config.NewConfig())
}

// OptionsFromConfig maps a loaded configuration onto bridge options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Limits: Limits{
			MaxPathChars:     cfg.Limits.MaxPathChars,
			MaxSchemaBytes:   cfg.Limits.MaxSchemaBytes,
			MaxDocumentBytes: cfg.Limits.MaxDocumentBytes,
		},
		MemoryBudget:    cfg.Writer.MemoryBudget,
		OpenTimeout:     cfg.OpenTimeoutDuration(),
		SchemaCacheSize: cfg.Cache.SchemaEntries,
	}
}

// Bridge owns the live writer sessions of one process.
type Bridge struct {
	opts    Options
	logger  *slog.Logger
	writers *handle.Table[*writer.Session]
	schemas *schema.Cache
	probes  singleflight.Group

	mu        sync.Mutex
	writerFor map[string]int64 // cleaned index path -> live writer handle
}

// New creates a Bridge.
func New(opts Options) *Bridge {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Bridge{
		opts:      opts,
		logger:    opts.Logger,
		writers:   handle.NewTable[*writer.Session](),
		schemas:   schema.NewCache(opts.SchemaCacheSize),
		writerFor: make(map[string]int64),
	}
}

// CreateIndex creates an index at path from a JSON schema description.
func (b *Bridge) CreateIndex(path, schemaJSON string) error {
	if err := b.checkPath(path); err != nil {
		return err
	}
	if limit := b.opts.Limits.MaxSchemaBytes; limit > 0 && len(schemaJSON) > limit {
		return errors.Newf(errors.ErrCodePayloadTooLarge,
			"schema is too large: %d bytes (max %d)", len(schemaJSON), limit)
	}

	s, err := b.schemas.Parse([]byte(schemaJSON))
	if err != nil {
		return err
	}
	return index.Create(path, s, index.WithLogger(b.logger))
}

// OpenIndex verifies that path holds a readable index with a stored schema.
// Concurrent probes of the same path share one open.
func (b *Bridge) OpenIndex(path string) error {
	if err := b.checkPath(path); err != nil {
		return err
	}

	key := cleanKey(path)
	if b.hasWriter(key) {
		// The writer already opened and validated it and holds the engine lock.
		return nil
	}

	_, err, shared := b.probes.Do(key, func() (interface{}, error) {
		idx, err := index.Open(path,
			index.WithOpenTimeout(b.opts.OpenTimeout),
			index.WithLogger(b.logger))
		if err != nil {
			return nil, err
		}
		return nil, idx.Close()
	})
	if shared {
		b.logger.Debug("index_probe_shared", slog.String("path", path))
	}
	return err
}

// IndexExists reports whether path holds an index. Only an invalid path
// is an error.
func (b *Bridge) IndexExists(path string) (bool, error) {
	if err := b.checkPath(path); err != nil {
		return false, err
	}
	return index.Exists(path), nil
}

// DeleteIndex removes the index at path. Deleting a missing index succeeds.
func (b *Bridge) DeleteIndex(path string) error {
	if err := b.checkPath(path); err != nil {
		return err
	}
	if b.hasWriter(cleanKey(path)) {
		return errors.Newf(errors.ErrCodeIndexLocked, "index at %s has an open writer", path).
			WithSuggestion("close the writer before deleting the index")
	}
	return index.Delete(path, index.WithLogger(b.logger))
}

// OpenWriter starts a writer session on path and returns its handle.
func (b *Bridge) OpenWriter(path string) (int64, error) {
	if err := b.checkPath(path); err != nil {
		return 0, err
	}

	s, err := writer.Open(path, writer.Options{
		MemoryBudget:     b.opts.MemoryBudget,
		MaxDocumentBytes: b.opts.Limits.MaxDocumentBytes,
		OpenTimeout:      b.opts.OpenTimeout,
		Logger:           b.logger,
	})
	if err != nil {
		return 0, err
	}

	h := b.writers.Acquire(s)
	b.mu.Lock()
	b.writerFor[cleanKey(path)] = h
	b.mu.Unlock()

	b.logger.Debug("handle_acquired",
		slog.Int64("handle", h),
		slog.String("writer_id", s.ID()))
	return h, nil
}

// AddDocument buffers one JSON document in the writer behind h. The
// session enforces the document size limit before parsing.
func (b *Bridge) AddDocument(h int64, doc string) error {
	return b.writers.With(h, func(s *writer.Session) error {
		return s.Add(doc)
	})
}

// CommitWriter makes the documents buffered in h durable.
func (b *Bridge) CommitWriter(h int64) error {
	return b.writers.With(h, func(s *writer.Session) error {
		return s.Commit()
	})
}

// CloseWriter discards uncommitted documents and invalidates h.
// Closing handle zero is a no-op.
func (b *Bridge) CloseWriter(h int64) error {
	if h == 0 {
		return nil
	}

	s, err := b.writers.Get(h)
	if err != nil {
		return err
	}
	key := cleanKey(s.Path())

	err = b.writers.Release(h)
	if errors.HasCode(err, errors.ErrCodeStaleHandle) {
		return err
	}
	b.forgetWriter(key, h)
	if err != nil {
		return err
	}

	b.logger.Debug("handle_released", slog.Int64("handle", h))
	return nil
}

// Shutdown closes every live writer, discarding uncommitted documents.
func (b *Bridge) Shutdown() error {
	b.mu.Lock()
	clear(b.writerFor)
	b.mu.Unlock()

	if n := b.writers.Len(); n > 0 {
		b.logger.Warn("shutdown_closing_writers", slog.Int("count", n))
	}
	return b.writers.CloseAll()
}

// LiveWriters returns the number of open writer handles.
func (b *Bridge) LiveWriters() int {
	return b.writers.Len()
}

func (b *Bridge) checkPath(path string) error {
	return pathguard.ValidateWithLimit(path, b.opts.Limits.MaxPathChars)
}

func (b *Bridge) hasWriter(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.writerFor[key]
	return ok
}

func (b *Bridge) forgetWriter(key string, h int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writerFor[key] == h {
		delete(b.writerFor, key)
	}
}

// cleanKey normalizes path for per-index bookkeeping.
func cleanKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
