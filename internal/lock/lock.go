// Package lock serializes CLI invocations against the same repository.
// The workflow itself is strictly sequential; the lock only makes a second
// concurrent invocation fail fast instead of corrupting the working tree.
package lock

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Acquire takes an exclusive advisory lock on the repository's lock file
// and returns a release function. A held lock is an immediate error, not a
// wait: the operator decides whether the other run is stale.
func Acquire(gitDir string) (func(), error) {
	path := filepath.Join(gitDir, "integ.lock")
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("another integ run holds %s", path)
	}
	return func() { _ = fl.Unlock() }, nil
}
