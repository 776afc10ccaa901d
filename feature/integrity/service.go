package integrity

import (
	"context"
	"errors"

	"quest-sync/core/artifact"
	"quest-sync/core/storage"
	"quest-sync/feature/integrity/checks"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IndexRebuilder rebuilds and persists the artifact index.
type IndexRebuilder interface {
	RebuildIndex() (artifact.ScanReport, error)
}

// Targets are the resources under check. Any backend may be nil; its check then reports an error.
type Targets struct {
	Client        storage.Client
	Bucket        string
	CatalogObject string

	DB    *gorm.DB
	Table string
	// Model is the gorm row type of Table.
	Model any
	// Required are the columns Table cannot be read without.
	Required []string

	Fs           afero.Fs
	ArtifactRoot string
	Index        *artifact.Index
	Rebuilder    IndexRebuilder
}

// Service handles integrity checks.
type Service struct {
	t      Targets
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(t Targets, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{t: t, logger: logger}
}

// CheckStorage probes the bucket and the enrichment catalog.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.t.Client, s.t.Bucket, s.t.CatalogObject)
}

// FixStorage creates the bucket if the report says it is missing.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	return checks.FixStorage(ctx, s.t.Client, s.t.Bucket, s.logger, report)
}

// CheckDatabase verifies the catalog table schema.
func (s *Service) CheckDatabase() (*checks.TableReport, error) {
	return checks.CheckTable(s.t.DB, s.t.Table, s.t.Model, s.t.Required)
}

// CheckArtifacts cross-checks the artifact index with the audio directory.
func (s *Service) CheckArtifacts() (*checks.ArtifactReport, error) {
	if s.t.Fs == nil || s.t.Index == nil {
		return nil, errors.New("artifact index not configured")
	}
	return checks.CheckArtifacts(s.t.Fs, s.t.ArtifactRoot, s.t.Index)
}

// FixArtifacts rebuilds the index from disk and checks again.
func (s *Service) FixArtifacts() (*checks.ArtifactReport, error) {
	if s.t.Rebuilder == nil {
		return nil, errors.New("index rebuild not configured")
	}
	if _, err := s.t.Rebuilder.RebuildIndex(); err != nil {
		return nil, err
	}
	return s.CheckArtifacts()
}

// CheckAll runs every check and collects the results by name.
// Fix applies the available repairs first.
func (s *Service) CheckAll(ctx context.Context, fix bool) map[string]any {
	report := make(map[string]any)

	if r, err := s.CheckStorage(ctx); err != nil {
		report["storage"] = errorReport(err)
	} else {
		if fix {
			if err := s.FixStorage(ctx, r); err != nil {
				s.logger.Warn("Bucket fix failed", zap.Error(err))
			}
		}
		report["storage"] = r
	}

	if r, err := s.CheckDatabase(); err != nil {
		report["database"] = errorReport(err)
	} else {
		report["database"] = r
	}

	check := s.CheckArtifacts
	if fix && s.t.Rebuilder != nil {
		check = s.FixArtifacts
	}
	if r, err := check(); err != nil {
		report["artifacts"] = errorReport(err)
	} else {
		report["artifacts"] = r
	}

	return report
}

func errorReport(err error) map[string]any {
	return map[string]any{"status": "error", "error": err.Error()}
}
