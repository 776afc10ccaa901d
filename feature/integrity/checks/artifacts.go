package checks

import (
	"os"
	"path/filepath"
	"sort"

	"quest-sync/core/artifact"

	"github.com/spf13/afero"
)

// ArtifactReport compares the artifact index with the files on disk.
type ArtifactReport struct {
	Root    string `json:"root"`
	Indexed int    `json:"indexed"`
	OnDisk  int    `json:"on_disk"`
	// MissingOnDisk lists indexed paths whose file is gone.
	MissingOnDisk []string `json:"missing_on_disk"`
	// Unindexed lists valid artifact files the index does not point to.
	Unindexed []string `json:"unindexed"`
	// InvalidNames lists files that do not follow the naming convention.
	InvalidNames []string `json:"invalid_names"`
	Status       string   `json:"status"` // "ok", "warning", "error"
}

// CheckArtifacts walks root and cross-checks it with index.
// A missing root counts as an empty directory.
func CheckArtifacts(fs afero.Fs, root string, index *artifact.Index) (*ArtifactReport, error) {
	report := &ArtifactReport{
		Root:          root,
		Indexed:       index.Len(),
		MissingOnDisk: []string{},
		Unindexed:     []string{},
		InvalidNames:  []string{},
		Status:        "ok",
	}

	for _, e := range index.Entries() {
		if !artifact.Exists(fs, root, e) {
			report.MissingOnDisk = append(report.MissingOnDisk, e.RelativePath)
		}
	}

	if ok, err := afero.DirExists(fs, root); err != nil {
		return nil, err
	} else if !ok {
		return finish(report), nil
	}

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		name, err := artifact.ParseFileName(info.Name())
		if err != nil {
			report.InvalidNames = append(report.InvalidNames, rel)
			return nil
		}
		report.OnDisk++
		if e, ok := index.Get(name.QuestID, name.Variant); !ok || filepath.ToSlash(e.RelativePath) != rel {
			report.Unindexed = append(report.Unindexed, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return finish(report), nil
}

func finish(report *ArtifactReport) *ArtifactReport {
	sort.Strings(report.Unindexed)
	sort.Strings(report.InvalidNames)

	switch {
	case len(report.MissingOnDisk) > 0 || len(report.Unindexed) > 0:
		report.Status = "error"
	case len(report.InvalidNames) > 0:
		report.Status = "warning"
	}
	return report
}
