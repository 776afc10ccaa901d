package syncer

import (
	"context"
	"time"

	"quest-sync/core/artifact"
	"quest-sync/core/models"
	"quest-sync/core/reconcile"
	"quest-sync/core/snapshot"
)

// Options configures an Orchestrator.
type Options struct {
	LanguageCode string
	// AudioRoot holds artifacts under <AudioRoot>/<LanguageCode>.
	AudioRoot string
	// Variants are synthesized per record. Defaults to male and female.
	Variants []models.Variant
	// Workers bounds concurrent synthesis calls. Values below 1 mean 1.
	Workers int
	// Delay is waited before every synthesis call except the first.
	Delay time.Duration
	// Ext is the artifact file extension. Defaults to the provider's.
	Ext string
}

// ApplyOptions selects what Apply regenerates.
type ApplyOptions struct {
	// OnlyNewAndChanged restricts work to New and Changed records.
	// When false, Unchanged records are selected too and every variant
	// without an artifact on disk is regenerated.
	OnlyNewAndChanged bool
	// RepairMissing adds Unchanged records whose artifacts are missing
	// even when OnlyNewAndChanged is set.
	RepairMissing bool
	// AutoExport hands the written artifacts to the Exporter after commit.
	AutoExport bool
	// IDs restricts the regeneration set. The snapshot is still committed whole.
	IDs []int
}

// Exporter pushes freshly written artifacts downstream.
type Exporter interface {
	Export(ctx context.Context, batch ExportBatch) error
}

// ExportBatch is the set of artifacts written by one Apply.
type ExportBatch struct {
	LanguageCode string
	// Root is the local language directory entries are relative to.
	Root    string
	Entries []artifact.Entry
}

// ScanResult is the outcome of Scan. On success it carries the diff and the
// pending snapshot Apply will commit.
type ScanResult struct {
	Success    bool                 `json:"success"`
	Error      string               `json:"error,omitempty"`
	Cancelled  bool                 `json:"cancelled"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Summary    reconcile.Summary    `json:"summary"`
	Diff       *snapshot.DiffResult `json:"diff,omitempty"`

	pending *snapshot.Snapshot
	records map[int]models.Quest
}

// Record returns the reconciled record behind a diff entry.
func (r *ScanResult) Record(id int) (models.Quest, bool) {
	q, ok := r.records[id]
	return q, ok
}

// Failure is one failed synthesis call.
type Failure struct {
	QuestID int            `json:"quest_id"`
	Variant models.Variant `json:"variant"`
	Error   string         `json:"error"`
}

// ApplyResult is the outcome of Apply.
type ApplyResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Cancelled bool   `json:"cancelled"`
	// Committed reports whether the new snapshot was persisted.
	Committed bool `json:"committed"`
	// Selected is the number of records in the regeneration set.
	Selected    int `json:"selected"`
	Synthesized int `json:"synthesized"`
	// Skipped counts variants left alone because an artifact exists,
	// plus records without narration text.
	Skipped     int       `json:"skipped"`
	Failures    []Failure `json:"failures,omitempty"`
	DataVersion string    `json:"data_version,omitempty"`
	Exported    bool      `json:"exported"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Candidate is one record of the regeneration set.
type Candidate struct {
	QuestID  int               `json:"quest_id"`
	Title    string            `json:"title"`
	Zone     string            `json:"zone"`
	DiffType snapshot.DiffType `json:"diff_type"`
	Variants []models.Variant  `json:"variants"`
}

// Status is a point-in-time view of the orchestrator.
type Status struct {
	State        State            `json:"state"`
	LanguageCode string           `json:"language_code"`
	Pending      *snapshot.Counts `json:"pending,omitempty"`
	LastScanAt   *time.Time       `json:"last_scan_at,omitempty"`
	LastApply    *ApplyResult     `json:"last_apply,omitempty"`
	Meta         *snapshot.Meta   `json:"meta,omitempty"`
	Artifacts    int              `json:"artifacts"`
}
