package quest

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"quest-sync/core/models"
	"quest-sync/core/source"
	"quest-sync/core/storage"
)

// StorageSource reads the enrichment catalog object from a bucket. It serves as source B.
type StorageSource struct {
	client storage.Client
	bucket string
	object string
	logger *zap.Logger
}

// NewStorageSource creates a StorageSource. A nil client is never available.
func NewStorageSource(client storage.Client, bucket, object string, logger *zap.Logger) *StorageSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageSource{client: client, bucket: bucket, object: object, logger: logger}
}

func (s *StorageSource) Name() string { return "storage" }

// IsAvailable reports whether the bucket exists.
func (s *StorageSource) IsAvailable(ctx context.Context) bool {
	if s.client == nil {
		return false
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		s.logger.Warn("Failed to probe enrichment bucket", zap.String("bucket", s.bucket), zap.Error(err))
		return false
	}
	return exists
}

// GetAll downloads and decodes the catalog object.
func (s *StorageSource) GetAll(ctx context.Context) ([]models.Quest, error) {
	if s.client == nil {
		return nil, errors.New("storage not configured")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.object, err)
	}
	defer obj.Close()

	list, err := DecodeCatalog(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.object, err)
	}
	return source.Tag(list, models.SourceB), nil
}

// GetByID scans the catalog for id.
func (s *StorageSource) GetByID(ctx context.Context, id int) (*models.Quest, error) {
	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return find(list, id)
}

func find(list []models.Quest, id int) (*models.Quest, error) {
	for i := range list {
		if list[i].ID == id {
			q := list[i]
			return &q, nil
		}
	}
	return nil, source.ErrNotFound
}
