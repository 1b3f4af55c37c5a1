package store

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// Lock takes an exclusive advisory lock next to the database at path so two
// crawls cannot overwrite each other's results. The returned function releases
// the lock and removes the lock file.
func Lock(path string) (func() error, error) {
	lockPath := path + ".lock"
	fl := flock.New(lockPath)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", lockPath, ErrLocked)
	}

	return func() error {
		if err := fl.Unlock(); err != nil {
			return fmt.Errorf("unlock %s: %w", lockPath, err)
		}
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", lockPath, err)
		}
		return nil
	}, nil
}
