// Package snapshot fingerprints reconciled quests, diffs them against the last
// committed snapshot and persists that snapshot between runs.
//
// # Fingerprint
//
// Fingerprint hashes exactly the text that feeds synthesis: Title, Description,
// Objectives and Completion. Zone, Category and provenance are diff metadata and
// never change the hash.
//
// # Diff
//
// Diff classifies every id seen in either the current records or the previous
// snapshot as New, Changed, Removed or Unchanged and orders the result by type,
// then zone, then id. It is pure and performs no I/O.
//
// # Repository
//
// The Repository keeps one current snapshot and one sync metadata record per
// output root and language, under <root>/.sync/<lang>/. A missing or corrupt file
// loads as "no snapshot". Commit backs up the previous snapshot (best effort,
// keeping only the newest backup) before overwriting it.
package snapshot
