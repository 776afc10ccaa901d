package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PlaceholderAPIKey is the value shipped in sample configs; it counts as unset.
const PlaceholderAPIKey = "YOUR_ELEVENLABS_API_KEY_HERE"

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultModelID = "eleven_multilingual_v2"
	outputFormat   = "mp3_44100_128"
	maxErrorBody   = 512
)

// ElevenLabsConfig configures the ElevenLabs client.
type ElevenLabsConfig struct {
	APIKey          string
	BaseURL         string
	ModelID         string
	Voices          Voices
	Stability       float64
	SimilarityBoost float64
	Timeout         time.Duration
}

// ElevenLabs calls the text-to-speech endpoint of the ElevenLabs API.
type ElevenLabs struct {
	cfg  ElevenLabsConfig
	http *http.Client
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsBody struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	LanguageCode  string        `json:"language_code,omitempty"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// NewElevenLabs creates a client. A nil httpClient gets one with cfg.Timeout.
func NewElevenLabs(cfg ElevenLabsConfig, httpClient *http.Client) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ModelID == "" {
		cfg.ModelID = defaultModelID
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &ElevenLabs{cfg: cfg, http: httpClient}
}

// Name returns the provider name.
func (c *ElevenLabs) Name() string { return "elevenlabs" }

// IsConfigured reports whether an API key other than the placeholder is set.
func (c *ElevenLabs) IsConfigured() bool {
	key := strings.TrimSpace(c.cfg.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

// Synthesize renders req.Text with the voice mapped to req.Variant.
func (c *ElevenLabs) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	voiceID, err := c.cfg.Voices.For(req.Variant)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(ttsBody{
		Text:         req.Text,
		ModelID:      c.cfg.ModelID,
		LanguageCode: req.LanguageCode,
		VoiceSettings: voiceSettings{
			Stability:       c.cfg.Stability,
			SimilarityBoost: c.cfg.SimilarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", c.cfg.BaseURL, url.PathEscape(voiceID), outputFormat)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request for quest %d: %w", req.QuestID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("elevenlabs returned %d for quest %d: %s", resp.StatusCode, req.QuestID, strings.TrimSpace(string(excerpt)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio for quest %d: %w", req.QuestID, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("elevenlabs returned empty audio for quest %d", req.QuestID)
	}
	return &Audio{Data: data, Ext: "mp3"}, nil
}
