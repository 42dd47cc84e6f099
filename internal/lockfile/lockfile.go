// Package lockfile serializes concurrent wgpeerctl invocations against the
// same configuration file. The lock is advisory: an exclusive flock held on a
// sentinel path next to the target, so the daemon and its file watcher are
// unaffected while cooperating mutators queue behind each other.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// ErrBusy reports that another invocation held the lock for the whole
// acquisition window.
var ErrBusy = errors.New("configuration file is busy")

// pollInterval is how often a blocked acquire retries.
const pollInterval = 50 * time.Millisecond

// Lock is a held advisory lock. Release it exactly once.
type Lock struct {
	f *os.File
}

// Acquire takes an exclusive advisory lock guarding target, waiting up to
// timeout for a concurrent holder to release it. The sentinel file
// (<target>.lock) is created if absent and intentionally left in place on
// release; removing it would race against the next acquirer.
func Acquire(target string, timeout time.Duration) (*Lock, error) {
	sentinel := target + ".lock"
	f, err := os.OpenFile(sentinel, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", sentinel, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &Lock{f: f}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			f.Close()
			return nil, fmt.Errorf("locking %s: %w", sentinel, err)
		}
		if !time.Now().Before(deadline) {
			f.Close()
			return nil, fmt.Errorf("%w: could not lock %s within %s", ErrBusy, sentinel, timeout)
		}
		time.Sleep(pollInterval)
	}
}

// Release drops the lock and closes the sentinel file.
func (l *Lock) Release() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return fmt.Errorf("unlocking: %w", err)
	}
	return l.f.Close()
}
