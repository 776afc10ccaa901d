// Package classify derives categorical tags (main story, group, raid, ...) for a quest.
//
// Classification is a fixed, ordered sequence of rules. Each rule pairs a predicate
// with an effect; rules are evaluated top to bottom and an effect only replaces a
// Category that is still the default (Side) unless the effect is marked Force.
// Boolean tags accumulate.
//
// # Rule Sets
//
//   - MetadataRules: used when provider metadata is present (party size, info id,
//     flag bits, free-text type, free-text category).
//   - FallbackRules: used without metadata (title bracket tags, suggested party size).
//
// A final promotion pass turns a still-default Category into Main for main-story
// quests and into Group for group quests.
package classify
