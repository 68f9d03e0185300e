// Package writer implements a buffered, single-writer ingest session over
// an open index. Documents accumulate in an engine batch and become visible
// to readers only after Commit, or earlier when the memory budget forces a
// flush. Close without Commit discards whatever is still buffered.
package writer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/google/uuid"

	"github.com/Aman-CERP/docindex/internal/document"
	"github.com/Aman-CERP/docindex/internal/errors"
	"github.com/Aman-CERP/docindex/internal/index"
	"github.com/Aman-CERP/docindex/internal/schema"
)

const (
	// DefaultMemoryBudget is the buffered payload size that triggers an
	// internal flush.
	DefaultMemoryBudget int64 = 50_000_000

	// DefaultMaxDocumentBytes caps a single document's JSON text.
	DefaultMaxDocumentBytes = 10 << 20

	// DefaultOpenTimeout bounds the wait for the engine's on-disk lock.
	DefaultOpenTimeout = 5 * time.Second
)

// Options configures a Session.
type Options struct {
	MemoryBudget     int64
	MaxDocumentBytes int
	OpenTimeout      time.Duration
	Logger           *slog.Logger
}

// DefaultOptions returns the standard session limits.
func DefaultOptions() Options {
	return Options{
		MemoryBudget:     DefaultMemoryBudget,
		MaxDocumentBytes: DefaultMaxDocumentBytes,
		OpenTimeout:      DefaultOpenTimeout,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MemoryBudget <= 0 {
		o.MemoryBudget = d.MemoryBudget
	}
	if o.MaxDocumentBytes <= 0 {
		o.MaxDocumentBytes = d.MaxDocumentBytes
	}
	if o.OpenTimeout <= 0 {
		o.OpenTimeout = d.OpenTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Stats counts session activity since Open.
type Stats struct {
	Added     uint64 // documents accepted into the buffer
	Rejected  uint64 // documents refused by validation or size checks
	Flushed   uint64 // documents applied to the index, by Commit or by the memory budget
	Flushes   uint64 // batches applied
}

// Session is an exclusive ingest session on one index.
// All methods are safe for concurrent use.
//
// When buffered documents exceed Options.MemoryBudget, Add flushes them to
// the index before Commit is called. Flushed documents are durable and
// visible to readers, and a later Close does not discard them.
type Session struct {
	mu           sync.Mutex
	id           string
	idx          *index.Index
	lock         *fileLock
	batch        *bleve.Batch
	pending      int
	pendingBytes int64
	stats        Stats
	opts         Options
	logger       *slog.Logger
	closed       bool
}

// Open acquires the writer lock on the index at path and starts a session.
// A second session on the same index fails with ERR_305_INDEX_LOCKED until
// the first is closed.
func Open(path string, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	if !index.Exists(path) {
		return nil, errors.Newf(errors.ErrCodeIndexNotFound, "index not found at path: %s", path).
			WithDetail("path", path)
	}

	lock := newFileLock(path)
	acquired, err := lock.tryLock()
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("lock index %s: %v", path, err), err)
	}
	if !acquired {
		return nil, errors.Newf(errors.ErrCodeIndexLocked, "index at %s already has an open writer", path).
			WithDetail("path", path).
			WithSuggestion("close the other writer first")
	}

	idx, err := index.Open(path, index.WithOpenTimeout(opts.OpenTimeout), index.WithLogger(opts.Logger))
	if err != nil {
		_ = lock.unlock()
		return nil, err
	}

	s := &Session{
		id:     uuid.NewString(),
		idx:    idx,
		lock:   lock,
		batch:  idx.NewBatch(),
		opts:   opts,
		logger: opts.Logger,
	}
	s.logger.Info("writer_opened",
		slog.String("writer_id", s.id),
		slog.String("path", path),
		slog.Int64("memory_budget", opts.MemoryBudget))
	return s, nil
}

// Add validates raw against the index schema and buffers it. A rejected
// document leaves the session usable and the buffer unchanged.
func (s *Session) Add(raw string) error {
	return s.AddBytes([]byte(raw))
}

// AddBytes is Add for a byte slice.
func (s *Session) AddBytes(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed()
	}

	if len(raw) > s.opts.MaxDocumentBytes {
		s.reject("payload_too_large")
		return errors.Newf(errors.ErrCodePayloadTooLarge,
			"document is too large: %d bytes (max %d)", len(raw), s.opts.MaxDocumentBytes)
	}

	doc, err := document.MapBytes(s.idx.Schema(), raw)
	if err != nil {
		s.reject(errors.GetCode(err))
		return err
	}

	if err := s.batch.Index(uuid.NewString(), doc.EngineFields()); err != nil {
		s.reject("engine")
		return errors.EngineError(fmt.Sprintf("buffer document: %v", err), err)
	}
	s.pending++
	s.pendingBytes += int64(len(raw))
	s.stats.Added++

	if s.pendingBytes >= s.opts.MemoryBudget {
		s.logger.Debug("writer_budget_flush",
			slog.String("writer_id", s.id),
			slog.Int("documents", s.pending),
			slog.Int64("bytes", s.pendingBytes))
		return s.flush()
	}
	return nil
}

// Commit makes every buffered document durable and visible to new readers.
// A failed commit is not retried.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed()
	}

	n := s.pending
	if n > 0 {
		if err := s.flush(); err != nil {
			s.logger.Error("writer_commit_failed",
				slog.String("writer_id", s.id),
				slog.String("error", err.Error()))
			return err
		}
	}
	s.logger.Info("writer_committed",
		slog.String("writer_id", s.id),
		slog.Int("documents", n),
		slog.Uint64("total_flushed", s.stats.Flushed))
	return nil
}

// Close discards documents still buffered and releases the index.
// Calling Close more than once is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	discarded := s.pending
	s.batch.Reset()
	s.pending = 0
	s.pendingBytes = 0

	closeErr := s.idx.Close()
	unlockErr := s.lock.unlock()

	s.logger.Info("writer_closed",
		slog.String("writer_id", s.id),
		slog.Int("discarded", discarded),
		slog.Uint64("flushed", s.stats.Flushed))

	if closeErr != nil {
		return closeErr
	}
	if unlockErr != nil {
		return errors.IOError(unlockErr.Error(), unlockErr)
	}
	return nil
}

// Pending returns the number of buffered, uncommitted documents.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Path returns the index root directory.
func (s *Session) Path() string { return s.idx.Path() }

// Schema returns the schema documents are validated against.
func (s *Session) Schema() *schema.Schema { return s.idx.Schema() }

// flush applies the pending batch. On failure the batch is kept as is.
func (s *Session) flush() error {
	if err := s.idx.ApplyBatch(s.batch); err != nil {
		return err
	}
	s.stats.Flushed += uint64(s.pending)
	s.stats.Flushes++
	s.batch.Reset()
	s.pending = 0
	s.pendingBytes = 0
	return nil
}

func (s *Session) reject(reason string) {
	s.stats.Rejected++
	s.logger.Debug("document_rejected",
		slog.String("writer_id", s.id),
		slog.String("reason", reason))
}

func errClosed() error {
	return errors.ValidationError(errors.ErrCodeStaleHandle, "writer session is closed")
}
