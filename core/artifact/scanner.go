package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"quest-sync/core/models"
)

// ScanReport summarizes a Rebuild walk.
type ScanReport struct {
	Indexed int      `json:"indexed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Rebuild replaces the index content with the artifacts found under root.
// Files whose names do not follow the convention are skipped and counted.
// A missing root yields an empty index.
func (x *Index) Rebuild(fs afero.Fs, root string) (ScanReport, error) {
	var report ScanReport
	var entries []Entry

	if ok, err := afero.DirExists(fs, root); err != nil {
		return report, fmt.Errorf("stat artifact root: %w", err)
	} else if !ok {
		x.Replace(nil)
		return report, nil
	}

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		if info.IsDir() {
			return nil
		}
		name, perr := ParseFileName(info.Name())
		if perr != nil {
			report.Skipped++
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			report.Skipped++
			return nil
		}
		rel = filepath.ToSlash(rel)
		size := info.Size()
		entries = append(entries, Entry{
			QuestID:       name.QuestID,
			Zone:          zoneOf(rel),
			IsMainStory:   name.Category == models.CategoryMain,
			Gender:        name.Variant,
			RelativePath:  rel,
			Title:         strings.ReplaceAll(name.ShortTitle, "_", " "),
			Category:      name.Category,
			FileSizeBytes: &size,
		})
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("walk artifact root: %w", err)
	}

	x.Replace(entries)
	report.Indexed = x.Len()
	return report, nil
}

// Exists reports whether the file behind e is still on disk.
func Exists(fs afero.Fs, root string, e Entry) bool {
	ok, err := afero.Exists(fs, filepath.Join(root, filepath.FromSlash(e.RelativePath)))
	return err == nil && ok
}

func zoneOf(rel string) string {
	if i := strings.Index(rel, "/"); i > 0 {
		return rel[:i]
	}
	return ""
}
