package models

import (
	"strings"
	"time"
)

// Source identifies which upstream provider produced a record.
type Source string

const (
	// SourceA is the mandatory base catalog.
	SourceA Source = "a"
	// SourceB is the enrichment-only catalog.
	SourceB Source = "b"
	// SourceMerged marks a record built from both sources.
	SourceMerged Source = "merged"
)

// Meta carries provider metadata used by the classification pass.
// All fields are optional; zero values mean "not provided".
type Meta struct {
	// PartySize is the suggested group size reported by the provider.
	PartySize int `json:"party_size,omitempty"`
	// InfoID is the provider-specific quest info id (group, raid, pvp, world event...).
	InfoID int `json:"info_id,omitempty"`
	// Flags is the provider quest flag bitmask.
	Flags uint32 `json:"flags,omitempty"`
	// Type is the free-text quest type label.
	Type string `json:"type,omitempty"`
	// Category is the free-text category label (storyline, class, profession...).
	Category string `json:"category,omitempty"`
}

// Quest is the canonical reconciled record.
type Quest struct {
	ID int `json:"quest_id"`

	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	Objectives       string `json:"objectives,omitempty"`
	Completion       string `json:"completion,omitempty"`
	RewardText       string `json:"reward_text,omitempty"`
	RequestItemsText string `json:"request_items_text,omitempty"`

	// RewardTextSource records which source supplied RewardText.
	RewardTextSource Source `json:"reward_text_source,omitempty"`

	Zone               string   `json:"zone,omitempty"`
	QuestType          string   `json:"quest_type,omitempty"`
	Category           Category `json:"category"`
	IsMainStory        bool     `json:"is_main_story"`
	IsGroupQuest       bool     `json:"is_group_quest"`
	SuggestedPartySize int      `json:"suggested_party_size,omitempty"`
	RequiredLevel      int      `json:"required_level,omitempty"`

	HasTitleDe         bool               `json:"has_title_de"`
	HasDescriptionDe   bool               `json:"has_description_de"`
	HasObjectivesDe    bool               `json:"has_objectives_de"`
	HasCompletionDe    bool               `json:"has_completion_de"`
	LocalizationStatus LocalizationStatus `json:"localization_status"`

	// Source is the adapter tag for raw records, SourceMerged after a two-sided merge.
	Source     Source `json:"source,omitempty"`
	HasSourceA bool   `json:"has_source_a"`
	HasSourceB bool   `json:"has_source_b"`

	// Meta is optional provider metadata for classification.
	Meta *Meta `json:"meta,omitempty"`

	HasMaleArtifact   bool       `json:"has_male_artifact"`
	HasFemaleArtifact bool       `json:"has_female_artifact"`
	LastSynthesizedAt *time.Time `json:"last_synthesized_at,omitempty"`
	LastError         string     `json:"last_error,omitempty"`
}

// RefreshLocalization recomputes LocalizationStatus from the localization flags.
func (q *Quest) RefreshLocalization() {
	q.LocalizationStatus = ComputeLocalizationStatus(*q)
}

// HasArtifact reports whether the bookkeeping flags mark the variant as generated.
func (q *Quest) HasArtifact(v Variant) bool {
	switch v {
	case VariantMale:
		return q.HasMaleArtifact
	case VariantFemale:
		return q.HasFemaleArtifact
	default:
		return false
	}
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
