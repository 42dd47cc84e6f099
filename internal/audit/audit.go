// Package audit appends a durable record of every operation attempt and
// outcome to a plain-text log file. The line format is consumed by the
// deployment's existing log tooling and must stay stable:
//
//	2025-08-24 13:45:02 - SUCCESS: added peer abc123
package audit

import (
	"fmt"
	"os"
	"time"
)

// Level classifies an audit record.
type Level string

const (
	Success Level = "SUCCESS"
	Error   Level = "ERROR"
	Info    Level = "INFO"
)

const timestampLayout = "2006-01-02 15:04:05"

// Log appends timestamped records to the file at Path, creating it on first
// use. The zero value with an empty Path discards records.
type Log struct {
	Path string
}

// Record appends one line. O_APPEND keeps concurrent invocations from
// interleaving partial lines.
func (l *Log) Record(level Level, format string, args ...any) error {
	if l.Path == "" {
		return nil
	}

	line := fmt.Sprintf("%s - %s: %s\n", time.Now().Format(timestampLayout), level, fmt.Sprintf(format, args...))

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("opening audit log %s: %w", l.Path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("appending to audit log %s: %w", l.Path, err)
	}
	return nil
}
