package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ConfigFile != "/etc/wireguard/wg0.conf" {
		t.Errorf("ConfigFile = %q", s.ConfigFile)
	}
	if s.BackupKeep != 10 {
		t.Errorf("BackupKeep = %d, want 10", s.BackupKeep)
	}
	wait, err := s.LockWait()
	if err != nil {
		t.Fatalf("LockWait: %v", err)
	}
	if wait != 5*time.Second {
		t.Errorf("LockWait = %s, want 5s", wait)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "config_file: /etc/wireguard/wg1.conf\nbackup_keep: 3\nlock_timeout: 250ms\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ConfigFile != "/etc/wireguard/wg1.conf" {
		t.Errorf("ConfigFile = %q", s.ConfigFile)
	}
	if s.BackupKeep != 3 {
		t.Errorf("BackupKeep = %d, want 3", s.BackupKeep)
	}
	wait, _ := s.LockWait()
	if wait != 250*time.Millisecond {
		t.Errorf("LockWait = %s, want 250ms", wait)
	}
	// Unset keys keep their defaults.
	if s.BackupDir != "/var/backups/wireguard" {
		t.Errorf("BackupDir = %q", s.BackupDir)
	}
}

func TestLoadEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("config_file: /from/file.conf\n"), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}
	t.Setenv("WGPEERCTL_CONFIG_FILE", "/from/env.conf")
	t.Setenv("WGPEERCTL_BACKUP_REQUIRED", "true")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ConfigFile != "/from/env.conf" {
		t.Errorf("ConfigFile = %q, want env value", s.ConfigFile)
	}
	if !s.BackupRequired {
		t.Error("BackupRequired not applied from environment")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed settings file")
	}
}

func TestLoadRejectsBadLockTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("lock_timeout: soonish\n"), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparsable lock_timeout")
	}
}

func TestWriteDefaultNeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backup_keep: 42\n"), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.BackupKeep != 42 {
		t.Errorf("existing settings were overwritten: BackupKeep = %d", s.BackupKeep)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &Settings{
		ConfigFile:  "/etc/wireguard/wg2.conf",
		BackupDir:   "/srv/backups",
		BackupKeep:  7,
		AuditLog:    "/srv/audit.log",
		LockTimeout: "2s",
	}
	if err := Save(want, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ConfigFile != want.ConfigFile || got.BackupDir != want.BackupDir || got.BackupKeep != want.BackupKeep {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
