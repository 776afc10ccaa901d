package quest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"quest-sync/core/models"
	"quest-sync/core/utils"
)

// DecodeCatalog reads a JSON quest catalog. The document is either an array of
// quest objects or an object with a "quests" array. Field values are loosely
// typed: ids and flags may be numbers or strings, booleans may be 0/1.
func DecodeCatalog(r io.Reader) ([]models.Quest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var items []map[string]any
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
	} else {
		var doc struct {
			Quests []map[string]any `json:"quests"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		items = doc.Quests
	}

	out := make([]models.Quest, 0, len(items))
	for i, item := range items {
		q := decodeQuest(item)
		if q.ID <= 0 {
			return nil, fmt.Errorf("catalog entry %d has no valid id", i)
		}
		out = append(out, q)
	}
	return out, nil
}

func decodeQuest(m map[string]any) models.Quest {
	id, ok := m["quest_id"]
	if !ok {
		id = m["id"]
	}
	q := models.Quest{
		ID:                 utils.ToInt(id),
		Title:              utils.ToString(m["title"]),
		Description:        utils.ToString(m["description"]),
		Objectives:         utils.ToString(m["objectives"]),
		Completion:         utils.ToString(m["completion"]),
		RewardText:         utils.ToString(m["reward_text"]),
		RequestItemsText:   utils.ToString(m["request_items_text"]),
		Zone:               utils.ToString(m["zone"]),
		QuestType:          utils.ToString(m["quest_type"]),
		IsMainStory:        utils.ToBool(m["is_main_story"]),
		IsGroupQuest:       utils.ToBool(m["is_group_quest"]),
		SuggestedPartySize: utils.ToInt(m["suggested_party_size"]),
		RequiredLevel:      utils.ToInt(m["required_level"]),
		HasTitleDe:         utils.ToBool(m["has_title_de"]),
		HasDescriptionDe:   utils.ToBool(m["has_description_de"]),
		HasObjectivesDe:    utils.ToBool(m["has_objectives_de"]),
		HasCompletionDe:    utils.ToBool(m["has_completion_de"]),
	}
	if c, err := models.ParseCategory(utils.ToString(m["category"])); err == nil {
		q.Category = c
	}
	if raw, ok := m["meta"].(map[string]any); ok {
		meta := models.Meta{
			PartySize: utils.ToInt(raw["party_size"]),
			InfoID:    utils.ToInt(raw["info_id"]),
			Flags:     uint32(utils.ToInt(raw["flags"])),
			Type:      utils.ToString(raw["type"]),
			Category:  utils.ToString(raw["category"]),
		}
		if meta != (models.Meta{}) {
			q.Meta = &meta
		}
	}
	return q
}
