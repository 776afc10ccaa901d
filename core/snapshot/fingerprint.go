package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"quest-sync/core/models"
)

// Fingerprint returns the content hash of the synthesis-relevant text fields.
// Each field is length-prefixed, so no separator can collide with field content.
func Fingerprint(q models.Quest) string {
	h := sha256.New()
	for _, field := range []string{q.Title, q.Description, q.Objectives, q.Completion} {
		h.Write([]byte(strconv.Itoa(len(field))))
		h.Write([]byte{':'})
		h.Write([]byte(field))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// EntryFor builds the snapshot entry for a reconciled quest.
func EntryFor(q models.Quest) Entry {
	return Entry{
		QuestID:      q.ID,
		ContentHash:  Fingerprint(q),
		Title:        q.Title,
		Zone:         q.Zone,
		Category:     q.Category,
		IsMainStory:  q.IsMainStory,
		IsGroupQuest: q.IsGroupQuest,
	}
}
