package snapshot

import (
	"fmt"
	"time"

	"quest-sync/core/models"
)

// Entry is the persisted summary of one quest.
type Entry struct {
	QuestID      int             `json:"quest_id"`
	ContentHash  string          `json:"content_hash"`
	Title        string          `json:"title"`
	Zone         string          `json:"zone"`
	Category     models.Category `json:"category"`
	IsMainStory  bool            `json:"is_main_story"`
	IsGroupQuest bool            `json:"is_group_quest"`
}

// Snapshot is the point-in-time collection used as the diff baseline.
type Snapshot struct {
	DataVersion  string    `json:"data_version"`
	CreatedAt    time.Time `json:"created_at_utc"`
	LanguageCode string    `json:"language_code"`
	Entries      []Entry   `json:"entries"`
}

// Meta is the small sync metadata record stored next to the snapshot.
type Meta struct {
	LastDataVersion         string    `json:"last_data_version"`
	LastSyncAt              time.Time `json:"last_sync_at_utc"`
	LanguageCode            string    `json:"language_code"`
	TotalArtifactsGenerated int       `json:"total_quests_voiced"`
}

// DiffType classifies a quest relative to the previous snapshot.
// The numeric order is the sort precedence of a DiffResult.
type DiffType int

const (
	DiffNew DiffType = iota
	DiffChanged
	DiffRemoved
	DiffUnchanged
)

var diffTypeNames = [...]string{"New", "Changed", "Removed", "Unchanged"}

func (d DiffType) String() string {
	if d < 0 || int(d) >= len(diffTypeNames) {
		return fmt.Sprintf("DiffType(%d)", int(d))
	}
	return diffTypeNames[d]
}

// MarshalText implements encoding.TextMarshaler.
func (d DiffType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DiffType) UnmarshalText(text []byte) error {
	for i, name := range diffTypeNames {
		if name == string(text) {
			*d = DiffType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown diff type %q", string(text))
}

// DiffEntry is the classification of one quest id.
type DiffEntry struct {
	QuestID      int             `json:"quest_id"`
	Title        string          `json:"title"`
	Zone         string          `json:"zone"`
	Category     models.Category `json:"category"`
	DiffType     DiffType        `json:"diff_type"`
	OldHash      string          `json:"old_hash,omitempty"`
	NewHash      string          `json:"new_hash,omitempty"`
	IsMainStory  bool            `json:"is_main_story"`
	IsGroupQuest bool            `json:"is_group_quest"`
}

// Counts aggregates a DiffResult by type.
type Counts struct {
	New       int `json:"new"`
	Changed   int `json:"changed"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Total returns the number of classified ids.
func (c Counts) Total() int {
	return c.New + c.Changed + c.Removed + c.Unchanged
}

// DiffResult is the ordered classification of all ids.
type DiffResult struct {
	Entries        []DiffEntry `json:"entries"`
	OldDataVersion string      `json:"old_data_version,omitempty"`
	NewDataVersion string      `json:"new_data_version"`
	ComputedAt     time.Time   `json:"computed_at"`
	Counts         Counts      `json:"counts"`
}

// Filter returns the entries whose type is one of types, preserving order.
func (r *DiffResult) Filter(types ...DiffType) []DiffEntry {
	want := make(map[DiffType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []DiffEntry
	for _, e := range r.Entries {
		if want[e.DiffType] {
			out = append(out, e)
		}
	}
	return out
}
