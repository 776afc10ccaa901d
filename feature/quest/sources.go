package quest

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quest-sync/core/models"
	"quest-sync/core/source"
	"quest-sync/core/storage"
)

// Backends are the connections a source may be bound to. Any of them may be nil.
type Backends struct {
	DB     *gorm.DB
	Client storage.Client
	Bucket string
	Fs     afero.Fs
}

// NewSources builds source A and source B from configuration.
// Source B is nil when its type is "none" or empty.
func NewSources(cfg source.Config, be Backends, logger *zap.Logger) (a, b source.Source, err error) {
	if be.Fs == nil {
		be.Fs = afero.NewOsFs()
	}

	switch cfg.AType {
	case source.BackendDatabase:
		a = NewDBSource(be.DB, cfg.ATable, logger)
	case source.BackendFile:
		a = NewFileSource(be.Fs, cfg.APath, models.SourceA)
	default:
		return nil, nil, fmt.Errorf("unsupported source A type: %q", cfg.AType)
	}

	switch cfg.BType {
	case "", "none":
		b = nil
	case source.BackendStorage:
		b = NewStorageSource(be.Client, be.Bucket, cfg.BObject, logger)
	case source.BackendFile:
		b = NewFileSource(be.Fs, cfg.BPath, models.SourceB)
	default:
		return nil, nil, fmt.Errorf("unsupported source B type: %q", cfg.BType)
	}
	return a, b, nil
}
