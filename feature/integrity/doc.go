// Package integrity checks that the backends and local state quest-sync depends
// on are in the shape it expects: the enrichment bucket and catalog object,
// the quest catalog table, and the artifact index against the audio directory.
package integrity
