package reconcile

import (
	"sort"

	"quest-sync/core/models"
)

// Merge combines both provider lists. The result contains exactly the ids of
// sourceA, sorted by id; duplicate ids keep their first occurrence.
func Merge(sourceA, sourceB []models.Quest) []models.Quest {
	bIndex := make(map[int]*models.Quest, len(sourceB))
	for i := range sourceB {
		if _, exists := bIndex[sourceB[i].ID]; !exists {
			bIndex[sourceB[i].ID] = &sourceB[i]
		}
	}

	seen := make(map[int]struct{}, len(sourceA))
	merged := make([]models.Quest, 0, len(sourceA))
	for i := range sourceA {
		a := sourceA[i]
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}

		if b, ok := bIndex[a.ID]; ok {
			merged = append(merged, mergeOne(a, *b))
			continue
		}

		a.Source = models.SourceA
		a.HasSourceA = true
		a.HasSourceB = false
		if !models.IsBlank(a.RewardText) && a.RewardTextSource == "" {
			a.RewardTextSource = models.SourceA
		}
		a.RefreshLocalization()
		merged = append(merged, a)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ID < merged[j].ID
	})
	return merged
}

// mergeOne builds the reconciled record for an id present in both sources.
// Synthesis bookkeeping is carried over from a.
func mergeOne(a, b models.Quest) models.Quest {
	m := a

	m.Title = preferPrimary(a.Title, b.Title)
	m.Description = preferPrimary(a.Description, b.Description)
	m.Zone = preferPrimary(a.Zone, b.Zone)
	m.QuestType = preferPrimary(a.QuestType, b.QuestType)

	m.Objectives = fillGap(a.Objectives, b.Objectives)
	m.Completion = fillGap(a.Completion, b.Completion)
	m.RequestItemsText = fillGap(a.RequestItemsText, b.RequestItemsText)

	switch {
	case !models.IsBlank(b.RewardText):
		m.RewardText = b.RewardText
		m.RewardTextSource = models.SourceB
	case !models.IsBlank(a.RewardText):
		m.RewardText = a.RewardText
		m.RewardTextSource = models.SourceA
	default:
		m.RewardText = ""
		m.RewardTextSource = ""
	}

	m.IsMainStory = a.IsMainStory || b.IsMainStory
	m.IsGroupQuest = a.IsGroupQuest || b.IsGroupQuest
	m.HasTitleDe = a.HasTitleDe || b.HasTitleDe
	m.HasDescriptionDe = a.HasDescriptionDe || b.HasDescriptionDe
	m.HasObjectivesDe = a.HasObjectivesDe || b.HasObjectivesDe
	m.HasCompletionDe = a.HasCompletionDe || b.HasCompletionDe

	m.SuggestedPartySize = preferPositive(a.SuggestedPartySize, b.SuggestedPartySize)
	m.RequiredLevel = preferPositive(a.RequiredLevel, b.RequiredLevel)

	m.Category = a.Category
	if a.Category == models.CategoryUnknown {
		m.Category = b.Category
	}

	if m.Meta == nil {
		m.Meta = b.Meta
	}

	m.Source = models.SourceMerged
	m.HasSourceA = true
	m.HasSourceB = true
	m.RefreshLocalization()
	return m
}

// preferPrimary returns a unless it is blank.
func preferPrimary(a, b string) string {
	if !models.IsBlank(a) {
		return a
	}
	return b
}

// fillGap lets b fill a genuine gap in a; blank-vs-blank keeps a.
func fillGap(a, b string) string {
	if !models.IsBlank(a) {
		return a
	}
	if !models.IsBlank(b) {
		return b
	}
	return a
}

func preferPositive(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}
