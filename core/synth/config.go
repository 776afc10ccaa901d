package synth

import (
	"fmt"
	"time"

	"quest-sync/core/models"
)

// Config holds the speech provider settings.
type Config struct {
	// Provider selects the implementation (elevenlabs).
	Provider string `mapstructure:"provider" default:"elevenlabs"`
	// ApiKey is the provider key. The placeholder value counts as unset.
	ApiKey  string `mapstructure:"api_key" default:"YOUR_ELEVENLABS_API_KEY_HERE"`
	BaseURL string `mapstructure:"base_url" default:"https://api.elevenlabs.io"`
	ModelID string `mapstructure:"model_id" default:"eleven_multilingual_v2"`
	// VoiceMale, VoiceFemale and VoiceNeutral map variants to voice ids.
	VoiceMale       string  `mapstructure:"voice_male" default:"pNInz6obpgDQGcFmaJgB"`
	VoiceFemale     string  `mapstructure:"voice_female" default:"EXAVITQu4vr4xnSDxMaL"`
	VoiceNeutral    string  `mapstructure:"voice_neutral" default:"onwK4e9ZLuTAKqWW03F9"`
	Stability       float64 `mapstructure:"stability" default:"0.5"`
	SimilarityBoost float64 `mapstructure:"similarity_boost" default:"0.75"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" default:"60"`
}

// Voices returns the configured variant to voice id mapping.
func (c Config) Voices() Voices {
	return Voices{
		models.VariantMale:    c.VoiceMale,
		models.VariantFemale:  c.VoiceFemale,
		models.VariantNeutral: c.VoiceNeutral,
	}
}

// New builds the configured provider.
func New(cfg Config) (Synthesizer, error) {
	switch cfg.Provider {
	case "", "elevenlabs":
		return NewElevenLabs(ElevenLabsConfig{
			APIKey:          cfg.ApiKey,
			BaseURL:         cfg.BaseURL,
			ModelID:         cfg.ModelID,
			Voices:          cfg.Voices(),
			Stability:       cfg.Stability,
			SimilarityBoost: cfg.SimilarityBoost,
			Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
		}, nil), nil
	default:
		return nil, fmt.Errorf("unknown synthesis provider %q", cfg.Provider)
	}
}
