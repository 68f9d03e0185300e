package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the name of the single-writer lock inside an index directory.
const LockFile = ".writer.lock"

// fileLock is a non-blocking cross-process lock on <index>/.writer.lock.
// Separate fileLock values on the same path exclude each other even within
// one process, so a second writer on an index fails fast.
type fileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

func newFileLock(indexPath string) *fileLock {
	lockPath := filepath.Join(indexPath, LockFile)
	return &fileLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// tryLock reports false if another writer holds the lock.
func (l *fileLock) tryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.locked = acquired
	return acquired, nil
}

// unlock is safe to call more than once.
func (l *fileLock) unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
