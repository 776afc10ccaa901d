package sync

import (
	"context"

	"go.uber.org/zap"

	"quest-sync/core/artifact"
	"quest-sync/core/syncer"
)

// Service drives the orchestrator with the configured apply defaults.
type Service struct {
	orchestrator *syncer.Orchestrator
	defaults     syncer.ApplyOptions
	logger       *zap.Logger
}

// NewService creates a new sync service.
func NewService(orchestrator *syncer.Orchestrator, defaults syncer.ApplyOptions, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orchestrator: orchestrator, defaults: defaults, logger: logger}
}

// Defaults returns the configured apply options.
func (s *Service) Defaults() syncer.ApplyOptions {
	return s.defaults
}

func (s *Service) Status() syncer.Status {
	return s.orchestrator.Status()
}

func (s *Service) Scan(ctx context.Context) (*syncer.ScanResult, error) {
	return s.orchestrator.Scan(ctx)
}

// Plan previews the regeneration set of the pending scan.
func (s *Service) Plan(opts syncer.ApplyOptions) ([]syncer.Candidate, error) {
	scan := s.orchestrator.LastScan()
	if scan == nil {
		return nil, syncer.ErrNoScan
	}
	return s.orchestrator.Plan(scan, opts), nil
}

// Apply applies the pending scan.
func (s *Service) Apply(ctx context.Context, opts syncer.ApplyOptions) (*syncer.ApplyResult, error) {
	scan := s.orchestrator.LastScan()
	if scan == nil {
		return nil, syncer.ErrNoScan
	}
	return s.orchestrator.Apply(ctx, scan, opts)
}

func (s *Service) Reset() error {
	return s.orchestrator.Reset()
}

func (s *Service) Artifacts(id int) []artifact.Entry {
	return s.orchestrator.Artifacts(id)
}

func (s *Service) RebuildIndex() (artifact.ScanReport, error) {
	return s.orchestrator.RebuildIndex()
}
