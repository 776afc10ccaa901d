package snapshot

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quest-sync/core/models"
	"quest-sync/core/utils"
)

// Diff classifies current against previous. A nil previous is the first run:
// every current quest is New. The result carries no new data version; use
// Engine.Compute to stamp one.
func Diff(current []models.Quest, previous *Snapshot) *DiffResult {
	entries := make([]Entry, 0, len(current))
	for _, q := range current {
		entries = append(entries, EntryFor(q))
	}
	return compare(entries, previous)
}

func compare(current []Entry, previous *Snapshot) *DiffResult {
	res := &DiffResult{}

	prev := make(map[int]Entry)
	var prevOrder []int
	if previous != nil {
		res.OldDataVersion = previous.DataVersion
		for _, e := range previous.Entries {
			if _, dup := prev[e.QuestID]; dup {
				continue
			}
			prev[e.QuestID] = e
			prevOrder = append(prevOrder, e.QuestID)
		}
	}

	visited := make(map[int]bool, len(current))
	for _, cur := range current {
		if visited[cur.QuestID] {
			continue
		}
		visited[cur.QuestID] = true

		d := DiffEntry{
			QuestID:      cur.QuestID,
			Title:        cur.Title,
			Zone:         cur.Zone,
			Category:     cur.Category,
			NewHash:      cur.ContentHash,
			IsMainStory:  cur.IsMainStory,
			IsGroupQuest: cur.IsGroupQuest,
		}
		if old, ok := prev[cur.QuestID]; ok {
			d.OldHash = old.ContentHash
			if old.ContentHash == cur.ContentHash {
				d.DiffType = DiffUnchanged
			} else {
				d.DiffType = DiffChanged
			}
		} else {
			d.DiffType = DiffNew
		}
		res.Entries = append(res.Entries, d)
	}

	for _, id := range prevOrder {
		if visited[id] {
			continue
		}
		old := prev[id]
		res.Entries = append(res.Entries, DiffEntry{
			QuestID:      old.QuestID,
			Title:        old.Title,
			Zone:         old.Zone,
			Category:     old.Category,
			DiffType:     DiffRemoved,
			OldHash:      old.ContentHash,
			IsMainStory:  old.IsMainStory,
			IsGroupQuest: old.IsGroupQuest,
		})
	}

	sort.SliceStable(res.Entries, func(i, j int) bool {
		a, b := res.Entries[i], res.Entries[j]
		if a.DiffType != b.DiffType {
			return a.DiffType < b.DiffType
		}
		if c := strings.Compare(a.Zone, b.Zone); c != 0 {
			return c < 0
		}
		return a.QuestID < b.QuestID
	})

	for _, e := range res.Entries {
		switch e.DiffType {
		case DiffNew:
			res.Counts.New++
		case DiffChanged:
			res.Counts.Changed++
		case DiffRemoved:
			res.Counts.Removed++
		case DiffUnchanged:
			res.Counts.Unchanged++
		}
	}
	return res
}

// Engine creates snapshots with fresh, strictly increasing data versions.
type Engine struct {
	clock utils.Clock

	mu   sync.Mutex
	last time.Time
}

// NewEngine creates an Engine. A nil clock uses the wall clock.
func NewEngine(clock utils.Clock) *Engine {
	if clock == nil {
		clock = utils.RealClock{}
	}
	return &Engine{clock: clock}
}

// CreateSnapshot wraps records into a snapshot with a new data version.
// It does not look at any previous snapshot.
func (e *Engine) CreateSnapshot(records []models.Quest, languageCode string) *Snapshot {
	created := e.tick()
	s := &Snapshot{
		DataVersion:  newDataVersion(created),
		CreatedAt:    created,
		LanguageCode: languageCode,
		Entries:      make([]Entry, 0, len(records)),
	}
	seen := make(map[int]bool, len(records))
	for _, q := range records {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		s.Entries = append(s.Entries, EntryFor(q))
	}
	return s
}

// Compute creates the next snapshot and diffs it against previous.
func (e *Engine) Compute(records []models.Quest, previous *Snapshot, languageCode string) (*DiffResult, *Snapshot) {
	next := e.CreateSnapshot(records, languageCode)
	res := compare(next.Entries, previous)
	res.NewDataVersion = next.DataVersion
	res.ComputedAt = next.CreatedAt
	return res, next
}

// tick returns the current UTC time, bumped past the previous call if needed.
func (e *Engine) tick() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now().UTC()
	if !now.After(e.last) {
		now = e.last.Add(time.Nanosecond)
	}
	e.last = now
	return now
}

func newDataVersion(t time.Time) string {
	return fmt.Sprintf("%s-%s", t.Format("20060102T150405.000000000Z"), uuid.NewString()[:8])
}
