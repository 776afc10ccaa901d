package source

import (
	"context"
	"errors"

	"quest-sync/core/models"
)

// ErrNotFound is returned by GetByID when the provider has no such record.
var ErrNotFound = errors.New("record not found")

// Source is an upstream quest provider.
type Source interface {
	// Name returns a short label for logs (e.g. "database", "storage").
	Name() string

	// IsAvailable reports whether the provider can currently be read.
	// An unavailable provider contributes an empty list.
	IsAvailable(ctx context.Context) bool

	// GetAll returns every record the provider exposes.
	GetAll(ctx context.Context) ([]models.Quest, error)

	// GetByID returns one record, or ErrNotFound.
	GetByID(ctx context.Context, id int) (*models.Quest, error)
}

// Tag marks every record with the producing source and its provenance flag.
func Tag(quests []models.Quest, src models.Source) []models.Quest {
	for i := range quests {
		quests[i].Source = src
		quests[i].HasSourceA = src == models.SourceA
		quests[i].HasSourceB = src == models.SourceB
	}
	return quests
}
