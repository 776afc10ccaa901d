package source

import (
	"context"
	"sync/atomic"

	"quest-sync/core/models"
)

// Static is an in-memory Source over a fixed list. It is used for tests and for
// wiring pre-loaded data into the merge step.
type Static struct {
	Label     string
	Records   []models.Quest
	Available bool
	Err       error

	calls atomic.Int32
}

// NewStatic returns an available Static source.
func NewStatic(label string, records ...models.Quest) *Static {
	return &Static{Label: label, Records: records, Available: true}
}

func (s *Static) Name() string { return s.Label }

func (s *Static) IsAvailable(ctx context.Context) bool { return s.Available }

// GetAll returns a copy of the records.
func (s *Static) GetAll(ctx context.Context) ([]models.Quest, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Quest, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

func (s *Static) GetByID(ctx context.Context, id int) (*models.Quest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, r := range s.Records {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

// Calls returns how many times GetAll was invoked.
func (s *Static) Calls() int { return int(s.calls.Load()) }
