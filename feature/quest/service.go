package quest

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"quest-sync/core/artifact"
	"quest-sync/core/models"
	"quest-sync/core/reconcile"
	"quest-sync/core/source"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Filter narrows a record listing.
type Filter struct {
	Zone      string
	Category  string
	MainStory *bool
	Offset    int
	Limit     int
}

// Page is one slice of the reconciled records.
type Page struct {
	Total   int            `json:"total"`
	Offset  int            `json:"offset"`
	Limit   int            `json:"limit"`
	Records []models.Quest `json:"records"`
}

// SourceStatus reports the availability of one source.
type SourceStatus struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Service serves reconciled records decorated with artifact bookkeeping.
type Service struct {
	reconciler *reconcile.Reconciler
	index      *artifact.Index
	a, b       source.Source
	logger     *zap.Logger
}

// NewService creates a new quest service. Source b may be nil.
func NewService(reconciler *reconcile.Reconciler, index *artifact.Index, a, b source.Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reconciler: reconciler, index: index, a: a, b: b, logger: logger}
}

// Get returns one reconciled record.
func (s *Service) Get(ctx context.Context, id int) (*models.Quest, error) {
	q, err := s.reconciler.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(q)
	return q, nil
}

// List returns the records matching f, ordered by id.
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	records, err := s.reconciler.Records(ctx)
	if err != nil {
		return nil, err
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	page := &Page{Offset: f.Offset, Limit: f.Limit, Records: []models.Quest{}}
	for _, q := range records {
		if !f.matches(q) {
			continue
		}
		if page.Total >= f.Offset && len(page.Records) < f.Limit {
			s.decorate(&q)
			page.Records = append(page.Records, q)
		}
		page.Total++
	}
	return page, nil
}

// Sources probes both sources.
func (s *Service) Sources(ctx context.Context) []SourceStatus {
	out := []SourceStatus{probe(ctx, "a", s.a)}
	if s.b != nil {
		out = append(out, probe(ctx, "b", s.b))
	}
	return out
}

func probe(ctx context.Context, role string, src source.Source) SourceStatus {
	if src == nil {
		return SourceStatus{Role: role}
	}
	return SourceStatus{Role: role, Name: src.Name(), Available: src.IsAvailable(ctx)}
}

// decorate sets the artifact flags from the index.
func (s *Service) decorate(q *models.Quest) {
	if s.index == nil {
		return
	}
	q.HasMaleArtifact = s.index.IsAlreadyPresent(q.ID, models.VariantMale)
	q.HasFemaleArtifact = s.index.IsAlreadyPresent(q.ID, models.VariantFemale)
}

func (f Filter) matches(q models.Quest) bool {
	if f.Zone != "" && !strings.EqualFold(f.Zone, q.Zone) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, q.Category.String()) {
		return false
	}
	if f.MainStory != nil && *f.MainStory != q.IsMainStory {
		return false
	}
	return true
}
