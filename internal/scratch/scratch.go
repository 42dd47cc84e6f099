// Package scratch resolves a writable scratch directory for staging
// replacement files before an atomic commit.
package scratch

import (
	"os"
	"path/filepath"
)

// Resolve returns the first usable scratch directory: the caller's preferred
// directory if given, then the system scratch area, then a user-scoped one.
// A candidate is usable when it exists or can be created and a zero-byte
// probe file can be written into it. When nothing qualifies the system
// default is returned anyway; downstream writes fail naturally rather than
// this function resolving silently into an unwritable path.
func Resolve(preferred string) string {
	var candidates []string
	if preferred != "" {
		candidates = append(candidates, preferred)
	}
	candidates = append(candidates, "/tmp")
	if cache, err := os.UserCacheDir(); err == nil {
		candidates = append(candidates, filepath.Join(cache, "wgpeerctl"))
	}

	for _, dir := range candidates {
		if usable(dir) {
			return dir
		}
	}
	return os.TempDir()
}

// usable reports whether dir can hold a freshly written file.
func usable(dir string) bool {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return false
	}
	probe, err := os.CreateTemp(dir, ".wgpeerctl-probe-*")
	if err != nil {
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}
