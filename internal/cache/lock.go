package cache

import (
	"github.com/gofrs/flock"
)

// FileLock is an exclusive lock on a lock file shared by all nexus
// processes using the same cache.
type FileLock struct {
	fl *flock.Flock
}

// NewFileLock creates a lock for path. The file is created on Lock.
func NewFileLock(path string) *FileLock {
	return &FileLock{fl: flock.New(path)}
}

// Lock blocks until the lock is acquired.
func (l *FileLock) Lock() error {
	return l.fl.Lock()
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *FileLock) TryLock() (bool, error) {
	return l.fl.TryLock()
}

// Unlock releases the lock. Unlocking an unlocked lock is a no-op.
func (l *FileLock) Unlock() error {
	return l.fl.Unlock()
}
