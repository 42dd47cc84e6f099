// Package settings loads wgpeerctl's own configuration: where the WireGuard
// config lives, where backups and the audit log go, and how patient the
// advisory lock is. Values come from defaults, then the YAML file, then a
// .env file in the working directory, then WGPEERCTL_* environment variables.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultLockTimeout = 5 * time.Second

type Settings struct {
	// ConfigFile is the WireGuard server configuration this tool mutates.
	ConfigFile string `yaml:"config_file"`

	// BackupDir receives timestamp-named snapshots before remove operations.
	BackupDir string `yaml:"backup_dir"`

	// BackupKeep caps snapshots kept per file; 0 keeps everything.
	BackupKeep int `yaml:"backup_keep"`

	// BackupRequired turns a failed snapshot into a hard stop instead of a
	// warning.
	BackupRequired bool `yaml:"backup_required"`

	// AuditLog is the append-only operation log. Empty disables it.
	AuditLog string `yaml:"audit_log"`

	// TempDir is the preferred scratch directory for staging commits. The
	// optional positional CLI argument overrides it per invocation.
	TempDir string `yaml:"temp_dir"`

	// LockTimeout bounds how long an invocation waits for the advisory lock
	// before reporting busy. Accepts time.ParseDuration syntax ("5s").
	LockTimeout string `yaml:"lock_timeout"`
}

// Default returns the settings used when no file or environment overrides
// exist. Paths match the deployment layout the tool grew up in.
func Default() *Settings {
	return &Settings{
		ConfigFile:  "/etc/wireguard/wg0.conf",
		BackupDir:   "/var/backups/wireguard",
		BackupKeep:  10,
		AuditLog:    "/var/log/wgpeerctl.log",
		LockTimeout: defaultLockTimeout.String(),
	}
}

// Path returns the default settings file location.
func Path() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "wgpeerctl", "config.yaml")
}

// Load reads settings from path (or Path() when empty), layering the file
// over defaults and the environment over the file. A missing file is fine; a
// malformed one is not.
func Load(path string) (*Settings, error) {
	s := Default()

	if path == "" {
		path = Path()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading settings %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	// A .env next to the caller is a convenience for dev setups; its absence
	// is the normal case.
	godotenv.Load()
	s.applyEnv()

	if _, err := s.LockWait(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// applyEnv overrides individual fields from WGPEERCTL_* variables.
func (s *Settings) applyEnv() {
	if v := os.Getenv("WGPEERCTL_CONFIG_FILE"); v != "" {
		s.ConfigFile = v
	}
	if v := os.Getenv("WGPEERCTL_BACKUP_DIR"); v != "" {
		s.BackupDir = v
	}
	if v := os.Getenv("WGPEERCTL_BACKUP_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.BackupKeep = n
		}
	}
	if v := os.Getenv("WGPEERCTL_BACKUP_REQUIRED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.BackupRequired = b
		}
	}
	if v := os.Getenv("WGPEERCTL_AUDIT_LOG"); v != "" {
		s.AuditLog = v
	}
	if v := os.Getenv("WGPEERCTL_TEMP_DIR"); v != "" {
		s.TempDir = v
	}
	if v := os.Getenv("WGPEERCTL_LOCK_TIMEOUT"); v != "" {
		s.LockTimeout = v
	}
}

// LockWait parses LockTimeout, defaulting when unset.
func (s *Settings) LockWait() (time.Duration, error) {
	if s.LockTimeout == "" {
		return defaultLockTimeout, nil
	}
	d, err := time.ParseDuration(s.LockTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid lock_timeout %q: %w", s.LockTimeout, err)
	}
	return d, nil
}

// Save writes the settings to path, creating parent directories as needed.
func Save(s *Settings, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// WriteDefault creates a settings file with defaults at path. An existing
// file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Save(Default(), path)
}
