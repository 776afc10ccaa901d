// Package models defines the reconciled quest record shared by every engine.
//
// A Quest is produced by a source adapter (tagged with the source that produced it)
// and, after merging, represents the single reconciled view of a catalog item.
//
// # Enumerations
//
//   - Category: Unknown, Main, Side, Group, Dungeon, Raid, PvP, Daily, Weekly, Event, Profession
//   - LocalizationStatus: FullyGerman, MixedGermanEnglish, OnlyEnglish, Incomplete
//   - Variant: male, female, neutral
//
// # Invariants
//
// LocalizationStatus is never stored independently of the flags it is derived from;
// callers use ComputeLocalizationStatus or Quest.RefreshLocalization.
package models
