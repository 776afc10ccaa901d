package quest

import (
	"strings"
	"testing"

	"quest-sync/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCatalog(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"Array", `[{"quest_id": 1, "title": "A"}, {"id": "2", "title": "B"}]`, 2, false},
		{"Wrapped", `{"quests": [{"quest_id": 3}]}`, 1, false},
		{"Empty", `   `, 0, false},
		{"Missing id", `[{"title": "no id"}]`, 0, true},
		{"Malformed", `[{"quest_id": 1`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := DecodeCatalog(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, list, tt.want)
		})
	}
}

func TestDecodeCatalog_Fields(t *testing.T) {
	input := `[{
		"quest_id": 42,
		"title": "Die Jagd",
		"description": "Jage.",
		"reward_text": "Danke!",
		"zone": "Dun Morogh",
		"category": "dungeon",
		"is_main_story": 1,
		"is_group_quest": "true",
		"suggested_party_size": 5,
		"has_description_de": true,
		"meta": {"info_id": 62, "flags": "8", "type": "Dungeon"}
	}]`

	list, err := DecodeCatalog(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, list, 1)
	q := list[0]

	assert.Equal(t, 42, q.ID)
	assert.Equal(t, "Danke!", q.RewardText)
	assert.Equal(t, models.CategoryDungeon, q.Category)
	assert.True(t, q.IsMainStory)
	assert.True(t, q.IsGroupQuest)
	assert.Equal(t, 5, q.SuggestedPartySize)
	assert.True(t, q.HasDescriptionDe)
	assert.False(t, q.HasTitleDe)
	assert.Empty(t, q.Objectives)
	require.NotNil(t, q.Meta)
	assert.Equal(t, 62, q.Meta.InfoID)
	assert.Equal(t, uint32(8), q.Meta.Flags)
}
