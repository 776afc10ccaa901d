package quest

import (
	"quest-sync/core/models"
)

// Row maps one row of the quest catalog table.
type Row struct {
	ID                 int    `gorm:"column:id;primaryKey"`
	Title              string `gorm:"column:title"`
	Description        string `gorm:"column:description"`
	Objectives         string `gorm:"column:objectives"`
	Completion         string `gorm:"column:completion"`
	RewardText         string `gorm:"column:reward_text"`
	RequestItemsText   string `gorm:"column:request_items_text"`
	Zone               string `gorm:"column:zone"`
	QuestType          string `gorm:"column:quest_type"`
	Category           string `gorm:"column:category"`
	IsMainStory        bool   `gorm:"column:is_main_story"`
	IsGroupQuest       bool   `gorm:"column:is_group_quest"`
	SuggestedPartySize int    `gorm:"column:suggested_party_size"`
	RequiredLevel      int    `gorm:"column:required_level"`
	HasTitleDe         bool   `gorm:"column:has_title_de"`
	HasDescriptionDe   bool   `gorm:"column:has_description_de"`
	HasObjectivesDe    bool   `gorm:"column:has_objectives_de"`
	HasCompletionDe    bool   `gorm:"column:has_completion_de"`

	// Provider metadata, used by the classification pass.
	InfoID       int    `gorm:"column:info_id"`
	Flags        uint32 `gorm:"column:flags"`
	TypeName     string `gorm:"column:type_name"`
	CategoryName string `gorm:"column:category_name"`
}

// RequiredColumns must exist for the table to be readable.
var RequiredColumns = []string{"id", "title", "description"}

// ToQuest converts the row into a raw record.
func (r Row) ToQuest() models.Quest {
	category, err := models.ParseCategory(r.Category)
	if err != nil {
		category = models.CategoryUnknown
	}
	q := models.Quest{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Objectives:         r.Objectives,
		Completion:         r.Completion,
		RewardText:         r.RewardText,
		RequestItemsText:   r.RequestItemsText,
		Zone:               r.Zone,
		QuestType:          r.QuestType,
		Category:           category,
		IsMainStory:        r.IsMainStory,
		IsGroupQuest:       r.IsGroupQuest,
		SuggestedPartySize: r.SuggestedPartySize,
		RequiredLevel:      r.RequiredLevel,
		HasTitleDe:         r.HasTitleDe,
		HasDescriptionDe:   r.HasDescriptionDe,
		HasObjectivesDe:    r.HasObjectivesDe,
		HasCompletionDe:    r.HasCompletionDe,
	}
	meta := models.Meta{
		PartySize: r.SuggestedPartySize,
		InfoID:    r.InfoID,
		Flags:     r.Flags,
		Type:      r.TypeName,
		Category:  r.CategoryName,
	}
	if meta != (models.Meta{}) {
		q.Meta = &meta
	}
	return q
}
