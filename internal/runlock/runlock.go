// Package runlock enforces single-instance execution. Collection updates
// replace the full tag list, so two overlapping scheduled runs would clobber
// each other's writes; an advisory file lock keeps the second run out.
package runlock

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock guards one run via an advisory file lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// New prepares a lock file inside dir.
func New(dir string) *Lock {
	path := filepath.Join(dir, "extrasync.lock")
	return &Lock{path: path, lock: flock.New(path)}
}

// Acquire takes the lock without blocking. A held lock means another run is
// in progress and this one must not start.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("another run is already in progress (lock held at %s)", l.path)
	}
	return nil
}

// Release drops the lock. Safe to call after a failed Acquire.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
