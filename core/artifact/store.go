package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"quest-sync/core/utils"
)

const indexFile = "artifact_index.json"

// File is the on-disk form of an Index.
type File struct {
	Language    string    `json:"language"`
	GeneratedAt time.Time `json:"generated_at"`
	TotalCount  int       `json:"total_count"`
	Entries     []Entry   `json:"entries"`
}

// Store reads and writes the index file of one language.
type Store struct {
	fs    afero.Fs
	path  string
	clock utils.Clock
}

// NewStore creates a store for <dir>/artifact_index.json.
func NewStore(fs afero.Fs, dir string, clock utils.Clock) *Store {
	if clock == nil {
		clock = utils.RealClock{}
	}
	return &Store{fs: fs, path: filepath.Join(dir, indexFile), clock: clock}
}

// Path returns the index file path.
func (s *Store) Path() string { return s.path }

// Load reads the index file. A missing file yields an empty index.
func (s *Store) Load(language string) (*Index, error) {
	x := NewIndex(language)
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return x, nil
	}
	if err != nil {
		return x, fmt.Errorf("read artifact index: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return x, fmt.Errorf("decode artifact index: %w", err)
	}
	for i := range f.Entries {
		f.Entries[i].RelativePath = filepath.ToSlash(f.Entries[i].RelativePath)
	}
	x.Replace(f.Entries)
	return x, nil
}

// Save writes x atomically.
func (s *Store) Save(x *Index) error {
	if x == nil {
		return errors.New("artifact: nil index")
	}
	entries := x.Entries()
	f := File{
		Language:    x.Language(),
		GeneratedAt: s.clock.Now().UTC(),
		TotalCount:  len(entries),
		Entries:     entries,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact index: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write artifact index: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace artifact index: %w", err)
	}
	return nil
}
