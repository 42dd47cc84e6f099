// Package atomicfile replaces a file's contents via write-to-temp-then-rename
// so concurrent readers never observe a partially written file.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CommitError reports a failed commit. Restored is set by the caller when the
// target was recovered from a backup after the failure.
type CommitError struct {
	Restored bool
	Err      error
}

func (e *CommitError) Error() string {
	if e.Restored {
		return fmt.Sprintf("commit failed: restored: %v", e.Err)
	}
	return fmt.Sprintf("commit failed: %v", e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// WriteFile stages data in a temporary file under scratchDir and renames it
// over target in a single operation. The temporary file inherits the target's
// permission bits (0600 for a fresh target). If scratchDir sits on a
// different filesystem than target the rename is retried once with a staging
// file next to the target itself. The staging file is removed on every
// failure path.
func WriteFile(target string, data []byte, scratchDir string) error {
	err := commit(target, data, scratchDir)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EXDEV) {
		// Scratch dir is on a different filesystem; stage next to the target.
		err = commit(target, data, filepath.Dir(target))
		if err == nil {
			return nil
		}
	}
	return &CommitError{Err: err}
}

func commit(target string, data []byte, dir string) error {
	tmp, err := os.CreateTemp(dir, ".wgpeerctl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	mode := os.FileMode(0o600)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting temp file mode: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s over %s: %w", tmpName, target, err)
	}
	return nil
}
