package artifact

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"quest-sync/core/models"
)

// Entry describes one synthesized artifact.
type Entry struct {
	QuestID         int             `json:"quest_id"`
	Zone            string          `json:"zone"`
	IsMainStory     bool            `json:"is_main_story"`
	Gender          models.Variant  `json:"gender"`
	RelativePath    string          `json:"relative_path"`
	Title           string          `json:"title"`
	Category        models.Category `json:"category"`
	DurationSeconds *float64        `json:"duration_seconds,omitempty"`
	FileSizeBytes   *int64          `json:"file_size_bytes,omitempty"`
}

// Key returns the index key "{id}|{variant}" with the variant lowercased.
func Key(id int, variant models.Variant) string {
	return fmt.Sprintf("%d|%s", id, strings.ToLower(string(variant)))
}

// Index is a concurrency-safe map of artifacts, unique per (quest id, variant).
type Index struct {
	mu       sync.RWMutex
	language string
	entries  map[string]Entry
}

// NewIndex creates an empty index for a language.
func NewIndex(language string) *Index {
	return &Index{language: language, entries: make(map[string]Entry)}
}

// Language returns the index language.
func (x *Index) Language() string { return x.language }

// Add stores e, replacing any entry with the same key.
func (x *Index) Add(e Entry) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.add(e)
}

// Update replaces the entry for e's key. It is Remove followed by Add.
func (x *Index) Update(e Entry) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.remove(e.QuestID, e.Gender)
	x.add(e)
}

// Remove deletes the entry for (id, variant) and reports whether one existed.
func (x *Index) Remove(id int, variant models.Variant) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.remove(id, variant)
}

// IsAlreadyPresent reports whether an artifact is indexed for (id, variant).
func (x *Index) IsAlreadyPresent(id int, variant models.Variant) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.entries[Key(id, variant)]
	return ok
}

// Get returns the entry for (id, variant).
func (x *Index) Get(id int, variant models.Variant) (Entry, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e, ok := x.entries[Key(id, variant)]
	return e, ok
}

// ForRecord returns all entries of one quest in canonical variant order.
func (x *Index) ForRecord(id int) []Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()
	var out []Entry
	for _, v := range models.AllVariants {
		if e, ok := x.entries[Key(id, v)]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns a snapshot of all entries sorted by quest id, then variant.
func (x *Index) Entries() []Entry {
	x.mu.RLock()
	out := make([]Entry, 0, len(x.entries))
	for _, e := range x.entries {
		out = append(out, e)
	}
	x.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].QuestID != out[j].QuestID {
			return out[i].QuestID < out[j].QuestID
		}
		return out[i].Gender < out[j].Gender
	})
	return out
}

// Len returns the number of entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Replace swaps the whole content for entries.
func (x *Index) Replace(entries []Entry) {
	fresh := make(map[string]Entry, len(entries))
	for _, e := range entries {
		e.Gender = models.Variant(strings.ToLower(string(e.Gender)))
		fresh[Key(e.QuestID, e.Gender)] = e
	}
	x.mu.Lock()
	x.entries = fresh
	x.mu.Unlock()
}

func (x *Index) add(e Entry) {
	e.Gender = models.Variant(strings.ToLower(string(e.Gender)))
	key := Key(e.QuestID, e.Gender)
	delete(x.entries, key)
	x.entries[key] = e
}

func (x *Index) remove(id int, variant models.Variant) bool {
	key := Key(id, variant)
	if _, ok := x.entries[key]; !ok {
		return false
	}
	delete(x.entries, key)
	return true
}
