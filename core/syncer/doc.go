// Package syncer drives the two-phase sync workflow.
//
// Scan reconciles both sources, diffs the result against the last committed
// snapshot and holds the new snapshot in memory. Apply synthesizes audio for
// the regeneration set, updates the artifact index and commits the snapshot.
//
// # State Machine
//
//	Idle -> Scanning -> Scanned -> Applying -> Applied | Failed
//
// Scan and Apply reject concurrent calls with ErrBusy. A cancelled Scan
// returns to Idle with nothing persisted. A cancelled Apply keeps the artifacts
// already written but never commits the snapshot, so the next Scan re-offers
// the same New and Changed records.
//
// # Known Limitation
//
// The snapshot is committed even when some synthesis calls fail. A Changed
// record whose synthesis failed is only offered again once its text changes,
// or when Apply runs with RepairMissing or without OnlyNewAndChanged.
package syncer
