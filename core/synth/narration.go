package synth

import (
	"strings"

	"quest-sync/core/models"
)

// NarrationText builds the spoken text of a quest: "Title. Description"
// followed by objectives and completion as separate paragraphs.
// Blank fields are left out; a quest without any text yields "".
func NarrationText(q models.Quest) string {
	title := strings.TrimSpace(q.Title)
	desc := strings.TrimSpace(q.Description)

	var head string
	switch {
	case title != "" && desc != "":
		head = title + ". " + desc
	case title != "":
		head = title + "."
	default:
		head = desc
	}

	parts := make([]string, 0, 3)
	for _, s := range []string{head, strings.TrimSpace(q.Objectives), strings.TrimSpace(q.Completion)} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}
