package reconcile

import (
	"time"

	"quest-sync/core/models"
)

// DefaultCacheTTL is used when Options.CacheTTL is zero.
const DefaultCacheTTL = 5 * time.Minute

// Options configures a Reconciler.
type Options struct {
	// CacheTTL is the lifetime of the merged list. Negative disables caching.
	CacheTTL time.Duration

	// Now overrides the wall clock (tests).
	Now func() time.Time
}

// Result is one reconciled record set together with fetch statistics.
type Result struct {
	// Records is sorted by id. Callers must treat it as read-only.
	Records []models.Quest `json:"records"`

	// Built is when the set was produced.
	Built time.Time `json:"built"`

	Summary Summary `json:"summary"`
}

// Summary provides aggregate counts for one reconcile run.
type Summary struct {
	SourceA          int  `json:"source_a"`
	SourceB          int  `json:"source_b"`
	SourceAAvailable bool `json:"source_a_available"`
	SourceBAvailable bool `json:"source_b_available"`
	Merged           int  `json:"merged"`
	// Enriched counts records present in both sources.
	Enriched int `json:"enriched"`
	// DroppedBOnly counts source B ids absent from source A.
	DroppedBOnly int `json:"dropped_b_only"`
}
