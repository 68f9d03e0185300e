// Package handle maps opaque 64-bit integers to live Go values so they can
// cross a C boundary without exposing pointers.
//
// A handle packs a slot index in the low 32 bits and that slot's generation
// in the high 32 bits. Generations start at 1 and advance on every release,
// so a handle that outlives its value is detected instead of aliasing the
// slot's next occupant. Zero is never issued.
package handle

import (
	"fmt"
	"sync"

	"github.com/Aman-CERP/docindex/internal/errors"
)

// Closer is the constraint for table values.
type Closer interface {
	Close() error
}

type slot[T Closer] struct {
	value T
	gen   uint32
	live  bool
}

// Table is a concurrency-safe registry of live values.
type Table[T Closer] struct {
	mu    sync.Mutex
	slots []slot[T]
	free  []uint32
	live  int
}

// NewTable returns an empty table.
func NewTable[T Closer]() *Table[T] {
	return &Table[T]{}
}

// Acquire registers v and returns its handle.
func (t *Table[T]) Acquire(v T) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot[T]{})
		idx = uint32(len(t.slots) - 1)
	}

	s := &t.slots[idx]
	if s.gen == 0 {
		s.gen = 1
	}
	s.value = v
	s.live = true
	t.live++
	return pack(idx, s.gen)
}

// Get returns the value behind h.
func (t *Table[T]) Get(h int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.value, nil
}

// With runs fn with the value behind h. The table lock is not held while
// fn runs, so fn may block without stalling other handles.
func (t *Table[T]) With(h int64, fn func(T) error) error {
	v, err := t.Get(h)
	if err != nil {
		return err
	}
	return fn(v)
}

// Release invalidates h and closes its value. Releasing zero is a no-op;
// releasing a stale handle fails without touching the slot's current value.
func (t *Table[T]) Release(h int64) error {
	if h == 0 {
		return nil
	}

	t.mu.Lock()
	s, err := t.lookup(h)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	v := s.value
	t.retire(h)
	t.mu.Unlock()

	return v.Close()
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// CloseAll releases every live handle and returns the first close error.
func (t *Table[T]) CloseAll() error {
	t.mu.Lock()
	var values []T
	for i := range t.slots {
		s := &t.slots[i]
		if !s.live {
			continue
		}
		values = append(values, s.value)
		t.retire(pack(uint32(i), s.gen))
	}
	t.mu.Unlock()

	var first error
	for _, v := range values {
		if err := v.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t *Table[T]) lookup(h int64) (*slot[T], error) {
	if h == 0 {
		return nil, errors.ValidationError(errors.ErrCodeInvalidHandle, "invalid writer handle: 0")
	}
	idx, gen := unpack(h)
	if gen == 0 || int(idx) >= len(t.slots) {
		return nil, stale(h)
	}
	s := &t.slots[idx]
	if !s.live || s.gen != gen {
		return nil, stale(h)
	}
	return s, nil
}

// retire must be called with t.mu held and h known to be live.
func (t *Table[T]) retire(h int64) {
	idx, _ := unpack(h)
	s := &t.slots[idx]
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, idx)
	t.live--
}

func pack(idx, gen uint32) int64 {
	return int64(uint64(gen)<<32 | uint64(idx))
}

func unpack(h int64) (idx, gen uint32) {
	u := uint64(h)
	return uint32(u), uint32(u >> 32)
}

func stale(h int64) *errors.Error {
	return errors.ValidationError(errors.ErrCodeStaleHandle,
		fmt.Sprintf("writer handle %d is closed or unknown", h)).
		WithSuggestion("open a new writer")
}
