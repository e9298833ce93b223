package network

import (
	"fmt"

	"github.com/gofrs/flock"
)

// withFileLock runs fn holding an advisory lock on path+".lock", so that a
// running `serve` and one-shot CLI commands never interleave a
// read-modify-write of the same file. An empty path runs fn unlocked.
func withFileLock(path string, exclusive bool, fn func() error) error {
	if path == "" {
		return fn()
	}
	l := flock.New(path + ".lock")
	lock := l.RLock
	if exclusive {
		lock = l.Lock
	}
	if err := lock(); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer l.Unlock() //nolint:errcheck
	return fn()
}
