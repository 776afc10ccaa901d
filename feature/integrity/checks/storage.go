package checks

import (
	"context"
	"fmt"
	"io"

	"quest-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport is the result of a bucket check.
type StorageReport struct {
	Bucket         string `json:"bucket"`
	BucketExists   bool   `json:"bucket_exists"`
	CatalogObject  string `json:"catalog_object,omitempty"`
	CatalogPresent bool   `json:"catalog_present"`
	Status         string `json:"status"` // "ok", "error"
}

// CheckStorage verifies the bucket exists and the enrichment catalog can be read.
// An empty catalog name skips the catalog probe.
func CheckStorage(ctx context.Context, client storage.Client, bucket, catalog string) (*StorageReport, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is nil")
	}

	report := &StorageReport{Bucket: bucket, CatalogObject: catalog, Status: "ok"}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		report.Status = "error"
		return report, nil
	}

	if catalog == "" {
		return report, nil
	}
	report.CatalogPresent = objectReadable(ctx, client, bucket, catalog)
	if !report.CatalogPresent {
		report.Status = "error"
	}
	return report, nil
}

// objectReadable reads one byte; minio reports a missing key on first read.
func objectReadable(ctx context.Context, client storage.Client, bucket, key string) bool {
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return false
	}
	defer obj.Close()

	buf := make([]byte, 1)
	_, err = obj.Read(buf)
	return err == nil || err == io.EOF
}

// FixStorage creates the bucket when it is missing. The catalog is owned
// upstream and is never created here.
func FixStorage(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, report *StorageReport) error {
	if report == nil || report.BucketExists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	report.BucketExists = true
	return nil
}
