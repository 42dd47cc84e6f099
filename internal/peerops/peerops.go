// Package peerops drives the peer mutation pipeline:
//
//	validate → lock → backup → parse → mutate → normalize → commit → log
//
// Each Service method is one short-lived, stateless invocation against the
// configured WireGuard file. Concurrent invocations serialize on an advisory
// lock so the read-modify-write cycle never computes from a stale read.
package peerops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukerupert/wgpeerctl/internal/atomicfile"
	"github.com/dukerupert/wgpeerctl/internal/audit"
	"github.com/dukerupert/wgpeerctl/internal/backup"
	"github.com/dukerupert/wgpeerctl/internal/lockfile"
	"github.com/dukerupert/wgpeerctl/internal/scratch"
	"github.com/dukerupert/wgpeerctl/internal/settings"
	"github.com/dukerupert/wgpeerctl/internal/wgconf"
)

// ErrTargetMissing reports that the WireGuard configuration file does not
// exist at the configured path.
var ErrTargetMissing = errors.New("configuration file not found")

// Service executes operations against one configuration file.
type Service struct {
	cfg     *settings.Settings
	log     *audit.Log
	backups *backup.Manager

	// Stderr receives non-fatal warnings (a failed backup, a failed audit
	// append). Defaults to os.Stderr.
	Stderr io.Writer
}

func New(cfg *settings.Settings) *Service {
	return &Service{
		cfg:     cfg,
		log:     &audit.Log{Path: cfg.AuditLog},
		backups: &backup.Manager{Dir: cfg.BackupDir, Keep: cfg.BackupKeep},
		Stderr:  os.Stderr,
	}
}

// Result describes a completed operation.
type Result struct {
	// Status is the human-readable line for stdout.
	Status string

	// Removed is how many peer sections a remove deleted.
	Removed int

	// HealedDuplicates is set when a remove found the same identity in more
	// than one section and deleted them all.
	HealedDuplicates bool

	// BackupPath is the snapshot written before a destructive operation, if
	// one was.
	BackupPath string
}

// Add appends the peer block read from blobPath to the configuration.
// tempDir, when non-empty, overrides the configured scratch directory
// preference for this invocation.
func (s *Service) Add(blobPath, tempDir string) (*Result, error) {
	op := "add " + blobPath

	blob, err := os.ReadFile(blobPath)
	if err != nil {
		return nil, s.fail(op, fmt.Errorf("reading peer block %s: %w", blobPath, err))
	}
	section, err := wgconf.ParsePeerBlock(string(blob))
	if err != nil {
		return nil, s.fail(op, fmt.Errorf("peer block %s: %w", blobPath, err))
	}
	identity := section.Identity()
	op = "add " + identity

	lock, err := s.acquire()
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer lock.Release()

	doc, err := s.loadDocument()
	if err != nil {
		return nil, s.fail(op, err)
	}
	if err := doc.AddPeer(section); err != nil {
		return nil, s.fail(op, err)
	}
	if err := s.commit(doc, tempDir, ""); err != nil {
		return nil, s.fail(op, err)
	}

	s.record(audit.Success, "added peer %s to %s", identity, s.cfg.ConfigFile)
	return &Result{
		Status: fmt.Sprintf("Peer %s added to %s", identity, s.cfg.ConfigFile),
	}, nil
}

// Remove deletes every peer section matching identity. Zero matches is a
// success: the desired end state already holds and the file is left
// untouched. A snapshot is taken before anything is deleted; whether a
// failed snapshot stops the operation depends on the backup_required
// setting.
func (s *Service) Remove(identity, tempDir string) (*Result, error) {
	op := "remove " + identity

	if strings.TrimSpace(identity) == "" {
		return nil, s.fail(op, errors.New("peer identity must not be empty"))
	}

	lock, err := s.acquire()
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer lock.Release()

	doc, err := s.loadDocument()
	if err != nil {
		return nil, s.fail(op, err)
	}

	matches := doc.FindPeers(identity)
	if len(matches) == 0 {
		s.record(audit.Success, "remove %s: no matching peer in %s; configuration unchanged", identity, s.cfg.ConfigFile)
		return &Result{
			Status: fmt.Sprintf("No matching peer %s in %s; nothing to remove", identity, s.cfg.ConfigFile),
		}, nil
	}

	backupPath, err := s.backups.Snapshot(s.cfg.ConfigFile)
	if err != nil {
		if s.cfg.BackupRequired {
			return nil, s.fail(op, fmt.Errorf("backup required but failed: %w", err))
		}
		fmt.Fprintf(s.Stderr, "Warning: proceeding without backup: %v\n", err)
		s.record(audit.Info, "remove %s: proceeding without backup: %v", identity, err)
		backupPath = ""
	}

	removed := doc.RemovePeer(identity)
	healed := removed > 1
	if healed {
		s.record(audit.Info, "remove %s: %v healed, removed %d sections", identity, wgconf.ErrDuplicateIdentity, removed)
	}

	if err := s.commit(doc, tempDir, backupPath); err != nil {
		return nil, s.fail(op, err)
	}

	s.record(audit.Success, "removed %d peer section(s) for %s from %s", removed, identity, s.cfg.ConfigFile)
	return &Result{
		Status:           fmt.Sprintf("Peer %s removed from %s", identity, s.cfg.ConfigFile),
		Removed:          removed,
		HealedDuplicates: healed,
		BackupPath:       backupPath,
	}, nil
}

// Restore recommits a snapshot over the configuration file. An empty
// snapshot path selects the most recent one for the configured file.
func (s *Service) Restore(snapshot, tempDir string) (*Result, error) {
	op := "restore"

	if snapshot == "" {
		latest, err := s.backups.Latest(filepath.Base(s.cfg.ConfigFile))
		if err != nil {
			return nil, s.fail(op, err)
		}
		snapshot = latest
	}
	op = "restore " + snapshot

	data, err := os.ReadFile(snapshot)
	if err != nil {
		return nil, s.fail(op, fmt.Errorf("reading backup %s: %w", snapshot, err))
	}
	doc, err := wgconf.Parse(string(data))
	if err != nil {
		return nil, s.fail(op, fmt.Errorf("backup %s: %w", snapshot, err))
	}
	if err := doc.Validate(); err != nil {
		return nil, s.fail(op, fmt.Errorf("backup %s: %w", snapshot, err))
	}

	lock, err := s.acquire()
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer lock.Release()

	if err := s.commit(doc, tempDir, ""); err != nil {
		return nil, s.fail(op, err)
	}

	s.record(audit.Success, "restored %s from %s", s.cfg.ConfigFile, snapshot)
	return &Result{
		Status:     fmt.Sprintf("Restored %s from %s", s.cfg.ConfigFile, snapshot),
		BackupPath: snapshot,
	}, nil
}

// PeerInfo is a read-only view of one peer section for listings.
type PeerInfo struct {
	PublicKey  string
	AllowedIPs string
	Endpoint   string
	Lines      []string
}

// Peers returns the configuration's peer sections. Read-only: no lock, no
// backup, no audit record.
func (s *Service) Peers() ([]PeerInfo, error) {
	doc, err := s.loadDocument()
	if err != nil {
		return nil, err
	}

	var peers []PeerInfo
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		if sec.Kind != wgconf.KindPeer {
			continue
		}
		peers = append(peers, PeerInfo{
			PublicKey:  sec.Identity(),
			AllowedIPs: sec.Value("AllowedIPs"),
			Endpoint:   sec.Value("Endpoint"),
			Lines:      sec.Lines,
		})
	}
	return peers, nil
}

// Backups lists the snapshots available for the configured file, oldest
// first.
func (s *Service) Backups() ([]string, error) {
	return s.backups.List(filepath.Base(s.cfg.ConfigFile))
}

func (s *Service) acquire() (*lockfile.Lock, error) {
	wait, err := s.cfg.LockWait()
	if err != nil {
		return nil, err
	}
	return lockfile.Acquire(s.cfg.ConfigFile, wait)
}

func (s *Service) loadDocument() (*wgconf.Document, error) {
	data, err := os.ReadFile(s.cfg.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTargetMissing, s.cfg.ConfigFile)
		}
		return nil, fmt.Errorf("reading %s: %w", s.cfg.ConfigFile, err)
	}
	doc, err := wgconf.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.cfg.ConfigFile, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.cfg.ConfigFile, err)
	}
	return doc, nil
}

// commit renders the document and atomically replaces the target. When the
// commit fails and a snapshot exists, the target is restored from it and the
// error reports that.
func (s *Service) commit(doc *wgconf.Document, tempDir, backupPath string) error {
	preferred := tempDir
	if preferred == "" {
		preferred = s.cfg.TempDir
	}
	dir := scratch.Resolve(preferred)

	err := atomicfile.WriteFile(s.cfg.ConfigFile, []byte(doc.Render()), dir)
	if err == nil {
		return nil
	}

	var commitErr *atomicfile.CommitError
	if backupPath != "" && errors.As(err, &commitErr) {
		if restoreErr := s.backups.Restore(backupPath, s.cfg.ConfigFile); restoreErr == nil {
			commitErr.Restored = true
		} else {
			fmt.Fprintf(s.Stderr, "Warning: restore from %s failed: %v\n", backupPath, restoreErr)
		}
	}
	return err
}

// fail audits a terminal error and passes it through.
func (s *Service) fail(op string, err error) error {
	s.record(audit.Error, "%s: %v", op, err)
	return err
}

// record appends an audit line; a broken audit log must not fail the
// operation, so append errors are downgraded to a warning.
func (s *Service) record(level audit.Level, format string, args ...any) {
	if err := s.log.Record(level, format, args...); err != nil {
		fmt.Fprintf(s.Stderr, "Warning: %v\n", err)
	}
}
