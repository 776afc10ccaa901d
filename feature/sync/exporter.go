package sync

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"quest-sync/core/storage"
	"quest-sync/core/syncer"
)

// StorageExporter uploads artifacts to <bucket>/<prefix>/<language>/<relative path>.
type StorageExporter struct {
	client storage.Client
	bucket string
	prefix string
	fs     afero.Fs
	logger *zap.Logger
}

// NewStorageExporter creates a StorageExporter reading artifacts from fs.
func NewStorageExporter(client storage.Client, bucket, prefix string, fs afero.Fs, logger *zap.Logger) *StorageExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageExporter{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), fs: fs, logger: logger}
}

// ObjectKey returns the object name for an artifact.
func (e *StorageExporter) ObjectKey(language, rel string) string {
	return path.Join(e.prefix, language, filepath.ToSlash(rel))
}

// Export uploads every entry of the batch. It keeps going after a failed
// upload and returns the joined errors.
func (e *StorageExporter) Export(ctx context.Context, batch syncer.ExportBatch) error {
	if e.client == nil {
		return errors.New("storage not configured")
	}
	if len(batch.Entries) == 0 {
		return nil
	}
	if err := e.ensureBucket(ctx); err != nil {
		return err
	}

	var errs []error
	uploaded := 0
	for _, entry := range batch.Entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		key := e.ObjectKey(batch.LanguageCode, entry.RelativePath)
		if err := e.upload(ctx, filepath.Join(batch.Root, entry.RelativePath), key); err != nil {
			e.logger.Warn("Artifact upload failed", zap.String("key", key), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		uploaded++
	}

	e.logger.Info("Artifacts exported",
		zap.String("bucket", e.bucket),
		zap.Int("uploaded", uploaded),
		zap.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}

func (e *StorageExporter) ensureBucket(ctx context.Context) error {
	exists, err := e.client.BucketExists(ctx, e.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", e.bucket, err)
	}
	if exists {
		return nil
	}
	if err := e.client.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", e.bucket, err)
	}
	return nil
}

func (e *StorageExporter) upload(ctx context.Context, file, key string) error {
	f, err := e.fs.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	_, err = e.client.PutObject(ctx, e.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType(file),
	})
	return err
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
