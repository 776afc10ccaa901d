package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quest-sync/core/models"
)

// Fetched holds the raw lists returned by both providers.
type Fetched struct {
	A []models.Quest
	B []models.Quest

	// AAvailable and BAvailable record the availability probe result.
	AAvailable bool
	BAvailable bool

	// BErr is the enrichment source error, if any. It never fails a fetch.
	BErr error
}

// FetchAll reads both providers concurrently and waits for both.
//
// Source A is mandatory: its read error is returned. Source B is enrichment-only:
// an unavailable or failing B contributes an empty list and the error is kept in
// Fetched.BErr. Either source may be nil, which is treated as unavailable.
func FetchAll(ctx context.Context, a, b Source, logger *zap.Logger) (*Fetched, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := &Fetched{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, ok, err := fetchOne(gctx, a)
		out.AAvailable = ok
		if err != nil {
			return fmt.Errorf("source A (%s): %w", nameOf(a), err)
		}
		out.A = Tag(list, models.SourceA)
		return nil
	})

	g.Go(func() error {
		list, ok, err := fetchOne(gctx, b)
		out.BAvailable = ok
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("Enrichment source failed, continuing without it",
				zap.String("source", nameOf(b)), zap.Error(err))
			out.BErr = err
			return nil
		}
		out.B = Tag(list, models.SourceB)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Fetched sources",
		zap.Int("source_a", len(out.A)),
		zap.Bool("source_a_available", out.AAvailable),
		zap.Int("source_b", len(out.B)),
		zap.Bool("source_b_available", out.BAvailable),
	)
	return out, nil
}

func fetchOne(ctx context.Context, s Source) ([]models.Quest, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || !s.IsAvailable(ctx) {
		return nil, false, ctx.Err()
	}
	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, true, err
	}
	return list, true, nil
}

func nameOf(s Source) string {
	if s == nil {
		return "none"
	}
	return s.Name()
}
