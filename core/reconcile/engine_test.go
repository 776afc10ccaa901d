package reconcile

import (
	"testing"

	"quest-sync/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_PrimaryPreferred(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		expect string
	}{
		{"A wins when present", "Foo", "Bar", "Foo"},
		{"B fills blank A", "", "Bar", "Bar"},
		{"Whitespace A is blank", "   ", "Bar", "Bar"},
		{"Both blank", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(
				[]models.Quest{{ID: 1, Title: tt.a, Description: tt.a, Zone: tt.a, QuestType: tt.a}},
				[]models.Quest{{ID: 1, Title: tt.b, Description: tt.b, Zone: tt.b, QuestType: tt.b}},
			)
			require.Len(t, merged, 1)
			assert.Equal(t, tt.expect, merged[0].Title)
			assert.Equal(t, tt.expect, merged[0].Description)
			assert.Equal(t, tt.expect, merged[0].Zone)
			assert.Equal(t, tt.expect, merged[0].QuestType)
		})
	}
}

func TestMerge_FallbackPreferred(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		expect string
	}{
		{"B fills gap", "", "X", "X"},
		{"B never overrides A", "Y", "X", "Y"},
		{"Blank vs blank keeps A", " ", "", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(
				[]models.Quest{{ID: 1, Objectives: tt.a, Completion: tt.a, RequestItemsText: tt.a}},
				[]models.Quest{{ID: 1, Objectives: tt.b, Completion: tt.b, RequestItemsText: tt.b}},
			)
			require.Len(t, merged, 1)
			assert.Equal(t, tt.expect, merged[0].Objectives)
			assert.Equal(t, tt.expect, merged[0].Completion)
			assert.Equal(t, tt.expect, merged[0].RequestItemsText)
		})
	}
}

func TestMerge_RewardTextPrefersB(t *testing.T) {
	tests := []struct {
		name       string
		a, b       string
		expect     string
		expectFrom models.Source
	}{
		{"B wins", "from a", "from b", "from b", models.SourceB},
		{"A fallback", "from a", "", "from a", models.SourceA},
		{"Neither", "", "  ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(
				[]models.Quest{{ID: 3, RewardText: tt.a}},
				[]models.Quest{{ID: 3, RewardText: tt.b}},
			)
			require.Len(t, merged, 1)
			assert.Equal(t, tt.expect, merged[0].RewardText)
			assert.Equal(t, tt.expectFrom, merged[0].RewardTextSource)
		})
	}
}

func TestMerge_FlagsNumbersCategory(t *testing.T) {
	a := models.Quest{
		ID:                 5,
		Title:              "t",
		Description:        "d",
		Objectives:         "o",
		Completion:         "c",
		IsMainStory:        true,
		HasTitleDe:         true,
		RequiredLevel:      0,
		Category:           models.CategoryUnknown,
		SuggestedPartySize: 5,
	}
	b := models.Quest{
		ID:                 5,
		IsGroupQuest:       true,
		HasDescriptionDe:   true,
		HasObjectivesDe:    true,
		HasCompletionDe:    true,
		RequiredLevel:      60,
		SuggestedPartySize: 3,
		Category:           models.CategoryRaid,
		LocalizationStatus: models.LocalizationOnlyEnglish,
	}

	merged := Merge([]models.Quest{a}, []models.Quest{b})
	require.Len(t, merged, 1)
	m := merged[0]

	assert.True(t, m.IsMainStory)
	assert.True(t, m.IsGroupQuest)
	assert.True(t, m.HasTitleDe && m.HasDescriptionDe && m.HasObjectivesDe && m.HasCompletionDe)
	assert.Equal(t, models.LocalizationFullyGerman, m.LocalizationStatus, "status is recomputed, not copied")
	assert.Equal(t, 60, m.RequiredLevel)
	assert.Equal(t, 5, m.SuggestedPartySize)
	assert.Equal(t, models.CategoryRaid, m.Category)
	assert.True(t, m.HasSourceA)
	assert.True(t, m.HasSourceB)
	assert.Equal(t, models.SourceMerged, m.Source)

	a.Category = models.CategoryDaily
	merged = Merge([]models.Quest{a}, []models.Quest{b})
	assert.Equal(t, models.CategoryDaily, merged[0].Category)
}

func TestMerge_SourceBOnlyExcluded(t *testing.T) {
	merged := Merge(
		[]models.Quest{{ID: 1, Title: "one"}},
		[]models.Quest{{ID: 42, Title: "only b"}, {ID: 1, Title: "enrich"}},
	)
	require.Len(t, merged, 1)
	assert.Equal(t, 1, merged[0].ID)
	for _, q := range merged {
		assert.NotEqual(t, 42, q.ID)
	}
}

func TestMerge_AOnly(t *testing.T) {
	merged := Merge([]models.Quest{{ID: 9, Title: "solo", RewardText: "gold", HasTitleDe: true}}, nil)
	require.Len(t, merged, 1)
	m := merged[0]
	assert.Equal(t, "solo", m.Title)
	assert.True(t, m.HasSourceA)
	assert.False(t, m.HasSourceB)
	assert.Equal(t, models.SourceA, m.Source)
	assert.Equal(t, models.SourceA, m.RewardTextSource)
	assert.Equal(t, models.LocalizationIncomplete, m.LocalizationStatus)
}

func TestMerge_DeterministicOrder(t *testing.T) {
	a := []models.Quest{{ID: 3}, {ID: 1}, {ID: 2}, {ID: 1, Title: "duplicate"}}
	first := Merge(a, nil)
	second := Merge(a, nil)

	require.Len(t, first, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{first[0].ID, first[1].ID, first[2].ID})
	assert.Empty(t, first[0].Title, "first occurrence wins")
	assert.Equal(t, first, second)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := []models.Quest{{ID: 1, Title: ""}}
	b := []models.Quest{{ID: 1, Title: "Bar"}}
	Merge(a, b)
	assert.Equal(t, "", a[0].Title)
	assert.False(t, a[0].HasSourceB)
}
