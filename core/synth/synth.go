package synth

import (
	"context"
	"errors"

	"quest-sync/core/models"
)

var (
	// ErrNotConfigured is returned when the provider has no usable credentials.
	ErrNotConfigured = errors.New("synth: provider not configured")
	// ErrEmptyText is returned for requests without narration text.
	ErrEmptyText = errors.New("synth: empty text")
	// ErrUnknownVoice is returned when no voice id is mapped for a variant.
	ErrUnknownVoice = errors.New("synth: no voice for variant")
)

// Request is one synthesis call.
type Request struct {
	QuestID      int
	Text         string
	Variant      models.Variant
	LanguageCode string
}

// Audio is the provider output.
type Audio struct {
	Data []byte
	Ext  string
}

// Synthesizer produces audio for a single (quest, variant).
type Synthesizer interface {
	Name() string
	IsConfigured() bool
	Synthesize(ctx context.Context, req Request) (*Audio, error)
}
