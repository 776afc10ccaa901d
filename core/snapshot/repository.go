package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"quest-sync/core/utils"
)

const (
	snapshotFile = "snapshot.json"
	metaFile     = "sync_meta.json"
	backupDir    = "backups"
	backupPrefix = "snapshot_"
)

// Repository persists the current snapshot and sync metadata for one language.
type Repository struct {
	fs     afero.Fs
	dir    string
	lang   string
	clock  utils.Clock
	logger *zap.Logger
}

// NewRepository creates a repository rooted at <outputRoot>/.sync/<languageCode>.
func NewRepository(fs afero.Fs, outputRoot, languageCode string, clock utils.Clock, logger *zap.Logger) *Repository {
	if clock == nil {
		clock = utils.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		fs:     fs,
		dir:    filepath.Join(outputRoot, ".sync", languageCode),
		lang:   languageCode,
		clock:  clock,
		logger: logger,
	}
}

// Dir returns the directory holding the snapshot files.
func (r *Repository) Dir() string { return r.dir }

// SnapshotPath returns the path of the current snapshot file.
func (r *Repository) SnapshotPath() string { return filepath.Join(r.dir, snapshotFile) }

// MetaPath returns the path of the sync metadata file.
func (r *Repository) MetaPath() string { return filepath.Join(r.dir, metaFile) }

// BackupDir returns the directory holding the snapshot backup.
func (r *Repository) BackupDir() string { return filepath.Join(r.dir, backupDir) }

// Exists reports whether a current snapshot file is present.
func (r *Repository) Exists() bool {
	ok, err := afero.Exists(r.fs, r.SnapshotPath())
	return err == nil && ok
}

// Load returns the current snapshot, or nil if it is missing or unreadable.
// Absence is the first-run state, so it is never an error.
func (r *Repository) Load() *Snapshot {
	var s Snapshot
	if !r.readJSON(r.SnapshotPath(), &s) {
		return nil
	}
	return &s
}

// LoadMeta returns the sync metadata, or nil if it is missing or unreadable.
func (r *Repository) LoadMeta() *Meta {
	var m Meta
	if !r.readJSON(r.MetaPath(), &m) {
		return nil
	}
	return &m
}

// Save writes the snapshot, creating the directory if needed.
func (r *Repository) Save(s *Snapshot) error {
	if s == nil {
		return errors.New("snapshot: nil snapshot")
	}
	return r.writeJSON(r.SnapshotPath(), s)
}

// SaveMeta writes the sync metadata, creating the directory if needed.
func (r *Repository) SaveMeta(m *Meta) error {
	if m == nil {
		return errors.New("snapshot: nil metadata")
	}
	return r.writeJSON(r.MetaPath(), m)
}

// Backup copies the current snapshot to backups/snapshot_<timestamp>.json and
// removes older backups. It returns the backup path, or "" when there is
// nothing to back up.
func (r *Repository) Backup() (string, error) {
	if !r.Exists() {
		return "", nil
	}

	data, err := afero.ReadFile(r.fs, r.SnapshotPath())
	if err != nil {
		return "", fmt.Errorf("read snapshot for backup: %w", err)
	}
	if err := r.fs.MkdirAll(r.BackupDir(), 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := backupPrefix + r.clock.Now().UTC().Format("20060102T150405.000000000Z") + ".json"
	target := filepath.Join(r.BackupDir(), name)
	if err := afero.WriteFile(r.fs, target, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	r.pruneBackups(name)
	return target, nil
}

// Commit is the commit point of a sync: best-effort backup, then snapshot, then metadata.
func (r *Repository) Commit(s *Snapshot, m *Meta) error {
	utils.BestEffort(r.logger, "snapshot backup", func() error {
		_, err := r.Backup()
		return err
	})
	if err := r.Save(s); err != nil {
		return err
	}
	return r.SaveMeta(m)
}

// Delete removes the snapshot and metadata (explicit reset). Backups are kept.
func (r *Repository) Delete() error {
	for _, p := range []string{r.SnapshotPath(), r.MetaPath()} {
		if err := r.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", filepath.Base(p), err)
		}
	}
	r.logger.Info("Snapshot deleted", zap.String("dir", r.dir))
	return nil
}

// Backups lists backup file names, oldest first.
func (r *Repository) Backups() []string {
	infos, err := afero.ReadDir(r.fs, r.BackupDir())
	if err != nil {
		return nil
	}
	var names []string
	for _, fi := range infos {
		if !fi.IsDir() && strings.HasPrefix(fi.Name(), backupPrefix) {
			names = append(names, fi.Name())
		}
	}
	sort.Strings(names)
	return names
}

func (r *Repository) pruneBackups(keep string) {
	for _, name := range r.Backups() {
		if name == keep {
			continue
		}
		utils.BestEffort(r.logger, "prune snapshot backup", func() error {
			return r.fs.Remove(filepath.Join(r.BackupDir(), name))
		})
	}
}

func (r *Repository) readJSON(path string, v any) bool {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("Failed to read sync state, treating as absent", zap.String("path", path), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.logger.Warn("Corrupt sync state, treating as absent", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// writeJSON writes through a temp file and rename so a crash never leaves a torn file.
func (r *Repository) writeJSON(path string, v any) error {
	if err := r.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := r.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
