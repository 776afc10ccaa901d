package classify

import (
	"regexp"
	"strconv"
	"strings"

	"quest-sync/core/models"
)

// Quest flag bits reported by the provider.
const (
	FlagRaid   uint32 = 0x00000040
	FlagDaily  uint32 = 0x00001000
	FlagWeekly uint32 = 0x00008000
)

// Effect is what a matching rule does to the classification.
type Effect struct {
	// Category to assign; CategoryUnknown leaves the category untouched.
	Category models.Category
	// Force assigns Category even if an earlier rule already set a specific one.
	Force     bool
	Group     bool
	MainStory bool
}

// Input is what rules inspect.
type Input struct {
	Quest models.Quest
	Meta  *models.Meta
}

// Rule pairs a predicate with an effect.
type Rule struct {
	Name   string
	Match  func(in Input) bool
	Effect Effect
}

// infoIDs maps provider info ids to their effect.
var infoIDs = []struct {
	id     int
	name   string
	effect Effect
}{
	{1, "group", Effect{Category: models.CategoryGroup, Group: true}},
	{81, "dungeon", Effect{Category: models.CategoryDungeon, Group: true}},
	{85, "heroic", Effect{Category: models.CategoryDungeon, Group: true}},
	{62, "raid", Effect{Category: models.CategoryRaid, Group: true}},
	{88, "raid10", Effect{Category: models.CategoryRaid, Group: true}},
	{89, "raid25", Effect{Category: models.CategoryRaid, Group: true}},
	{41, "pvp", Effect{Category: models.CategoryPvP}},
	{82, "world_event", Effect{Category: models.CategoryEvent}},
}

// MetadataRules is evaluated in order when metadata is present.
var MetadataRules = buildMetadataRules()

// FallbackRules is evaluated in order when no metadata is present.
var FallbackRules = []Rule{
	titleTag("title_group", Effect{Group: true}, "group", "gruppe", "elite"),
	titleTag("title_raid", Effect{Category: models.CategoryRaid, Group: true}, "raid", "schlachtzug"),
	titleTag("title_dungeon", Effect{Category: models.CategoryDungeon, Group: true}, "dungeon", "heroic", "heroisch"),
	titleTag("title_pvp", Effect{Category: models.CategoryPvP}, "pvp"),
	titleTag("title_daily", Effect{Category: models.CategoryDaily}, "daily", "täglich"),
	titleTag("title_weekly", Effect{Category: models.CategoryWeekly}, "weekly", "wöchentlich"),
	titleTag("title_campaign", Effect{MainStory: true}, "campaign", "kampagne", "story"),
	{
		Name: "title_party_size",
		Match: func(in Input) bool {
			for _, tag := range titleTags(in.Quest.Title) {
				if n, err := strconv.Atoi(tag); err == nil && n >= 3 {
					return true
				}
			}
			return false
		},
		Effect: Effect{Group: true},
	},
	{
		Name:   "suggested_party_size",
		Match:  func(in Input) bool { return in.Quest.SuggestedPartySize >= 3 },
		Effect: Effect{Group: true},
	},
}

func buildMetadataRules() []Rule {
	rules := []Rule{{
		Name:   "party_size",
		Match:  func(in Input) bool { return in.Meta.PartySize >= 3 },
		Effect: Effect{Group: true},
	}}

	for _, entry := range infoIDs {
		id := entry.id
		rules = append(rules, Rule{
			Name:   "info_id_" + entry.name,
			Match:  func(in Input) bool { return in.Meta.InfoID == id },
			Effect: entry.effect,
		})
	}

	rules = append(rules,
		flagRule("flag_raid", FlagRaid, Effect{Category: models.CategoryRaid, Group: true, Force: true}),
		flagRule("flag_daily", FlagDaily, Effect{Category: models.CategoryDaily}),
		flagRule("flag_weekly", FlagWeekly, Effect{Category: models.CategoryWeekly}),
		typeText("type_raid", Effect{Category: models.CategoryRaid, Group: true}, "raid"),
		typeText("type_dungeon", Effect{Category: models.CategoryDungeon, Group: true}, "dungeon"),
		typeText("type_pvp", Effect{Category: models.CategoryPvP}, "pvp"),
		typeText("type_daily", Effect{Category: models.CategoryDaily}, "daily"),
		typeText("type_weekly", Effect{Category: models.CategoryWeekly}, "weekly"),
		typeText("type_group", Effect{Group: true}, "group", "elite"),
		categoryText("category_story", Effect{MainStory: true}, "storyline", "main", "campaign", "epic", "legendary"),
		categoryText("category_profession", Effect{Category: models.CategoryProfession}, "class", "profession"),
	)
	return rules
}

func flagRule(name string, bit uint32, effect Effect) Rule {
	return Rule{
		Name:   name,
		Match:  func(in Input) bool { return in.Meta.Flags&bit != 0 },
		Effect: effect,
	}
}

func typeText(name string, effect Effect, needles ...string) Rule {
	return Rule{
		Name:   name,
		Match:  func(in Input) bool { return containsAny(in.Meta.Type, needles) },
		Effect: effect,
	}
}

func categoryText(name string, effect Effect, needles ...string) Rule {
	return Rule{
		Name:   name,
		Match:  func(in Input) bool { return containsAny(in.Meta.Category, needles) },
		Effect: effect,
	}
}

func titleTag(name string, effect Effect, tags ...string) Rule {
	return Rule{
		Name: name,
		Match: func(in Input) bool {
			for _, tag := range titleTags(in.Quest.Title) {
				for _, want := range tags {
					if tag == want {
						return true
					}
				}
			}
			return false
		},
		Effect: effect,
	}
}

var bracketPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// titleTags returns the lowercased contents of every [bracket] in a title.
func titleTags(title string) []string {
	matches := bracketPattern.FindAllStringSubmatch(title, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.ToLower(strings.TrimSpace(m[1])))
	}
	return tags
}

func containsAny(haystack string, needles []string) bool {
	if haystack == "" {
		return false
	}
	haystack = strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
