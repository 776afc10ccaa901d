package models

// LocalizationStatus summarizes how much of a quest's text is available in German.
type LocalizationStatus string

const (
	LocalizationFullyGerman        LocalizationStatus = "FullyGerman"
	LocalizationMixedGermanEnglish LocalizationStatus = "MixedGermanEnglish"
	LocalizationOnlyEnglish        LocalizationStatus = "OnlyEnglish"
	LocalizationIncomplete         LocalizationStatus = "Incomplete"
)

// ComputeLocalizationStatus derives the status from the four German flags.
// A flag only counts when the text field it describes is non-blank.
//
//	4 => FullyGerman, 0 => OnlyEnglish, 2-3 => MixedGermanEnglish, 1 => Incomplete
func ComputeLocalizationStatus(q Quest) LocalizationStatus {
	count := 0
	for _, f := range []struct {
		flag bool
		text string
	}{
		{q.HasTitleDe, q.Title},
		{q.HasDescriptionDe, q.Description},
		{q.HasObjectivesDe, q.Objectives},
		{q.HasCompletionDe, q.Completion},
	} {
		if f.flag && !IsBlank(f.text) {
			count++
		}
	}

	switch {
	case count == 4:
		return LocalizationFullyGerman
	case count == 0:
		return LocalizationOnlyEnglish
	case count >= 2:
		return LocalizationMixedGermanEnglish
	default:
		return LocalizationIncomplete
	}
}
