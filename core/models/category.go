package models

import (
	"fmt"
	"strings"
)

// Category is the quest category enum.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryMain
	CategorySide
	CategoryGroup
	CategoryDungeon
	CategoryRaid
	CategoryPvP
	CategoryDaily
	CategoryWeekly
	CategoryEvent
	CategoryProfession
)

var categoryNames = [...]string{
	CategoryUnknown:    "Unknown",
	CategoryMain:       "Main",
	CategorySide:       "Side",
	CategoryGroup:      "Group",
	CategoryDungeon:    "Dungeon",
	CategoryRaid:       "Raid",
	CategoryPvP:        "PvP",
	CategoryDaily:      "Daily",
	CategoryWeekly:     "Weekly",
	CategoryEvent:      "Event",
	CategoryProfession: "Profession",
}

// String returns the canonical name used in files and JSON.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return categoryNames[CategoryUnknown]
	}
	return categoryNames[c]
}

// ParseCategory parses a canonical category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for i, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(i), nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized names decode as Unknown.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		*c = CategoryUnknown
		return nil
	}
	*c = parsed
	return nil
}
