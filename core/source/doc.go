// Package source defines the capability exposed by an upstream quest provider
// and the concurrent fetch used by the merge step.
//
// Adapters are polymorphic: a database table, an object in a storage bucket,
// a local JSON file. They only list and look up raw records and tag each record
// with the source it came from; precedence rules live in core/reconcile.
package source
