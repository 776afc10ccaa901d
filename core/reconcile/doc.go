// Package reconcile merges the two quest providers into one canonical record set.
//
// # Architecture
//
// The reconcile system consists of two parts:
//
//  1. Merge: a pure, deterministic function that combines source A (mandatory base)
//     and source B (enrichment) field by field using fixed precedence rules.
//
//  2. Reconciler: fetches both sources concurrently, merges, runs the
//     classification pass and keeps the result in a short-lived cache with
//     stampede protection. The cache is derived state: it can be dropped at any
//     time with Invalidate and is rebuilt on the next read.
//
// # Precedence
//
//   - Title, Description, Zone, QuestType: A if non-blank, else B.
//   - Objectives, Completion, RequestItemsText: A if non-blank, else B if non-blank, else A.
//   - RewardText: B if non-blank, else A if non-blank, else empty.
//   - IsMainStory, IsGroupQuest, German flags: A OR B.
//   - SuggestedPartySize, RequiredLevel: A if > 0, else B.
//   - Category: A unless Unknown, else B.
//   - LocalizationStatus: recomputed from the merged flags.
//
// Records present only in source B are dropped.
//
// # Usage Example
//
//	r, err := reconcile.NewReconciler(dbSource, bucketSource, reconcile.Options{CacheTTL: 5 * time.Minute}, logger)
//	res, err := r.Refresh(ctx)     // always fetches
//	quests, err := r.Records(ctx)  // cached
//	r.Invalidate()                 // after any write path
package reconcile
