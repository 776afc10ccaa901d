// Package quest binds the quest sources to real backends and exposes the
// reconciled records over HTTP.
//
// Source A is the catalog table read through gorm, or a JSON file. Source B is
// an enrichment catalog stored as a JSON object in a bucket, or a JSON file.
package quest
