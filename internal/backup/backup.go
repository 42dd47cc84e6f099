// Package backup snapshots the configuration file before destructive
// operations and restores it when a commit goes wrong.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// timestampLayout qualifies snapshot names. Lexicographic order of names
// matches chronological order, which Latest and prune rely on.
const timestampLayout = "20060102-150405.000000000"

// Manager writes timestamp-qualified snapshots of a file into Dir.
// Keep limits how many snapshots per base name survive a new one; zero
// keeps everything.
type Manager struct {
	Dir  string
	Keep int
}

// Snapshot copies the file at path into the backup directory and returns the
// snapshot's path. Older snapshots beyond Keep are pruned best-effort.
func (m *Manager) Snapshot(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s for backup: %w", path, err)
	}
	if err := os.MkdirAll(m.Dir, 0o700); err != nil {
		return "", fmt.Errorf("creating backup dir %s: %w", m.Dir, err)
	}

	base := filepath.Base(path)
	name := fmt.Sprintf("%s.%s.bak", base, time.Now().Format(timestampLayout))
	dest := filepath.Join(m.Dir, name)
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", dest, err)
	}

	m.prune(base)
	return dest, nil
}

// Restore copies a snapshot's contents back over target.
func (m *Manager) Restore(snapshot, target string) error {
	data, err := os.ReadFile(snapshot)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", snapshot, err)
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("restoring %s from %s: %w", target, snapshot, err)
	}
	return nil
}

// Latest returns the most recent snapshot for the given base file name, or
// an error if none exist.
func (m *Manager) Latest(base string) (string, error) {
	snapshots, err := m.List(base)
	if err != nil {
		return "", err
	}
	if len(snapshots) == 0 {
		return "", fmt.Errorf("no backups for %s in %s", base, m.Dir)
	}
	return snapshots[len(snapshots)-1], nil
}

// List returns every snapshot for the given base file name, oldest first.
func (m *Manager) List(base string) ([]string, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup dir %s: %w", m.Dir, err)
	}

	var snapshots []string
	prefix := base + "."
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			snapshots = append(snapshots, filepath.Join(m.Dir, name))
		}
	}
	sort.Strings(snapshots)
	return snapshots, nil
}

// prune removes the oldest snapshots beyond Keep. Failures are ignored; the
// new snapshot already exists and pruning is housekeeping.
func (m *Manager) prune(base string) {
	if m.Keep <= 0 {
		return
	}
	snapshots, err := m.List(base)
	if err != nil {
		return
	}
	for len(snapshots) > m.Keep {
		os.Remove(snapshots[0])
		snapshots = snapshots[1:]
	}
}
