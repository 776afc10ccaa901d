// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client, which talks to AWS S3 as well as self-hosted
// MinIO. quest-sync reads the enrichment catalog (source B) from a bucket and
// optionally exports synthesized audio to it.
//
// # Client Interface
//
// The Client interface keeps only the calls quest-sync makes, so tests can use
// the testify mock in core/storage/mocks.
//
//   - BucketExists: availability probe for source B and the exporter.
//   - MakeBucket: creates the export bucket if needed.
//   - PutObject: uploads an artifact.
//   - GetObject: streams the enrichment catalog.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "quests")
package storage
