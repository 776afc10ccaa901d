package synth

import (
	"fmt"

	"quest-sync/core/models"
)

// Voices maps each variant to a provider voice id.
type Voices map[models.Variant]string

// For returns the voice id of a variant.
func (v Voices) For(variant models.Variant) (string, error) {
	id, ok := v[variant]
	if !ok || id == "" {
		return "", fmt.Errorf("%w %q", ErrUnknownVoice, variant)
	}
	return id, nil
}

// Supports reports whether every variant has a voice id.
func (v Voices) Supports(variants []models.Variant) error {
	for _, variant := range variants {
		if _, err := v.For(variant); err != nil {
			return err
		}
	}
	return nil
}
