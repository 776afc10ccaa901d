// Package sync exposes the Scan/Apply workflow over HTTP and exports written
// artifacts to object storage.
package sync
