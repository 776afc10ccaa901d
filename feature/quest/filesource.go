package quest

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"quest-sync/core/models"
	"quest-sync/core/source"
)

// FileSource reads a JSON catalog file. It can serve as either source.
type FileSource struct {
	fs   afero.Fs
	path string
	tag  models.Source
}

// NewFileSource creates a FileSource whose records are tagged with tag.
func NewFileSource(fs afero.Fs, path string, tag models.Source) *FileSource {
	return &FileSource{fs: fs, path: path, tag: tag}
}

func (s *FileSource) Name() string { return "file:" + s.path }

// IsAvailable reports whether the file exists.
func (s *FileSource) IsAvailable(ctx context.Context) bool {
	ok, err := afero.Exists(s.fs, s.path)
	return err == nil && ok
}

// GetAll decodes the whole file.
func (s *FileSource) GetAll(ctx context.Context) ([]models.Quest, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	list, err := DecodeCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return source.Tag(list, s.tag), nil
}

// GetByID scans the file for id.
func (s *FileSource) GetByID(ctx context.Context, id int) (*models.Quest, error) {
	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return find(list, id)
}
