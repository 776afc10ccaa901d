package classify

import "quest-sync/core/models"

// Result is the derived classification.
type Result struct {
	Category     models.Category
	IsMainStory  bool
	IsGroupQuest bool
	// Matched lists the names of the rules that fired, in evaluation order.
	Matched []string
}

// Classify derives the category and tags of q. If meta is nil, q.Meta is used;
// if both are nil the fallback rules apply. The quest's own flags seed the result.
func Classify(q models.Quest, meta *models.Meta) Result {
	if meta == nil {
		meta = q.Meta
	}

	rules := FallbackRules
	if meta != nil {
		rules = MetadataRules
	}

	return Evaluate(rules, Input{Quest: q, Meta: meta}, Result{
		Category:     models.CategorySide,
		IsMainStory:  q.IsMainStory,
		IsGroupQuest: q.IsGroupQuest,
	})
}

// Evaluate runs rules in order on top of seed, then applies the promotion pass.
func Evaluate(rules []Rule, in Input, seed Result) Result {
	r := seed
	for _, rule := range rules {
		if !rule.Match(in) {
			continue
		}
		r.Matched = append(r.Matched, rule.Name)
		apply(&r, rule.Effect)
	}

	if r.IsMainStory && r.Category == models.CategorySide {
		r.Category = models.CategoryMain
	}
	if r.IsGroupQuest && r.Category == models.CategorySide {
		r.Category = models.CategoryGroup
	}
	return r
}

func apply(r *Result, e Effect) {
	if e.Category != models.CategoryUnknown && (e.Force || r.Category == models.CategorySide) {
		r.Category = e.Category
	}
	if e.Group {
		r.IsGroupQuest = true
	}
	if e.MainStory {
		r.IsMainStory = true
	}
}

// ApplyTo classifies q in place. A specific category already carried by the
// record is kept; only Unknown or Side is replaced by the derived one.
func ApplyTo(q *models.Quest) Result {
	r := Classify(*q, nil)
	if q.Category == models.CategoryUnknown || q.Category == models.CategorySide {
		q.Category = r.Category
	}
	q.IsMainStory = q.IsMainStory || r.IsMainStory
	q.IsGroupQuest = q.IsGroupQuest || r.IsGroupQuest
	return r
}

// ApplyAll classifies every quest in place.
func ApplyAll(quests []models.Quest) {
	for i := range quests {
		ApplyTo(&quests[i])
	}
}
