package artifact

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"quest-sync/core/models"
)

// ErrInvalidName is returned by ParseFileName for files outside the convention.
var ErrInvalidName = errors.New("artifact: file name does not match convention")

const maxShortTitle = 40

var namePattern = regexp.MustCompile(`^Record_(\d+)_([A-Za-z]+)_([A-Za-z]+)_(.+)\.([A-Za-z0-9]+)$`)

var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "Ä", "Ae", "Ö", "Oe", "Ü", "Ue", "ß", "ss")

// Name is the parsed form of an artifact file name.
type Name struct {
	QuestID    int
	Category   models.Category
	Variant    models.Variant
	ShortTitle string
	Ext        string
}

// FileName builds the artifact file name for a quest variant.
func FileName(id int, category models.Category, variant models.Variant, title, ext string) string {
	return fmt.Sprintf("Record_%d_%s_%s_%s.%s", id, category.String(), strings.ToLower(string(variant)), ShortTitle(title), strings.TrimPrefix(ext, "."))
}

// ParseFileName is the inverse of FileName.
func ParseFileName(name string) (Name, error) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return Name{}, ErrInvalidName
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return Name{}, ErrInvalidName
	}
	category, err := models.ParseCategory(m[2])
	if err != nil {
		return Name{}, ErrInvalidName
	}
	variant, err := models.ParseVariant(m[3])
	if err != nil {
		return Name{}, ErrInvalidName
	}
	return Name{QuestID: id, Category: category, Variant: variant, ShortTitle: m[4], Ext: m[5]}, nil
}

// ShortTitle reduces a title to ASCII letters and digits joined by "_",
// capped at 40 characters.
func ShortTitle(title string) string {
	s := sanitize(title, maxShortTitle)
	if s == "" {
		return "Untitled"
	}
	return s
}

// ZoneDir returns the directory name used for a zone.
func ZoneDir(zone string) string {
	s := sanitize(zone, 64)
	if s == "" {
		return "Unknown"
	}
	return s
}

// RelativePath returns the "/"-separated path of an artifact inside a language directory.
func RelativePath(q models.Quest, variant models.Variant, ext string) string {
	return ZoneDir(q.Zone) + "/" + FileName(q.ID, q.Category, variant, q.Title, ext)
}

func sanitize(s string, limit int) string {
	s = umlauts.Replace(s)
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	out := strings.Join(words, "_")
	if len(out) > limit {
		out = strings.TrimRight(out[:limit], "_")
	}
	return out
}
