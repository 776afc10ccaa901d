// Package artifact tracks which synthesized audio files exist per (quest, voice variant).
//
// The Index is durable state, independent of the text diff: a quest whose text
// is Unchanged may still need regeneration for a variant whose file was deleted.
//
// # File Naming
//
// Artifacts are stored under <audio root>/<language>/<zone>/ and named
//
//	Record_{Id}_{Category}_{Variant}_{ShortTitle}.{ext}
//
// Rebuild walks a language directory and recovers id, category and variant from
// that convention; files that do not match are skipped and counted.
//
// # Persistence
//
// Store reads and writes the per-language index file. Relative paths always use
// "/" regardless of the host OS.
package artifact
