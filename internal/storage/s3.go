package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"bizfinder/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// KeyFunc names the object a search result is stored under.
type KeyFunc func(result *models.SearchResult) string

// S3Options configures the connection to an S3-compatible store.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Service stores search results as JSON objects in S3-compatible storage.
type S3Service struct {
	client *minio.Client
	key    KeyFunc
	logger *zap.Logger
}

// NewS3Service connects to the MinIO endpoint described by opts.
func NewS3Service(opts S3Options, key KeyFunc, logger *zap.Logger) (*S3Service, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("endpoint, access key and secret key are required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("connected to object storage", zap.String("endpoint", opts.Endpoint))
	return &S3Service{client: client, key: key, logger: logger}, nil
}

// CreateBucket makes sure bucketName exists.
func (s *S3Service) CreateBucket(ctx context.Context, bucketName, location string) error {
	exists, err := s.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", bucketName, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", bucketName, err)
	}
	return nil
}

// StoreResult writes result as JSON and returns its object key. A later
// result for the same search replaces the earlier one.
func (s *S3Service) StoreResult(ctx context.Context, bucketName string, result *models.SearchResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal search result: %w", err)
	}

	objectKey := s.key(result)
	_, err = s.client.PutObject(
		ctx,
		bucketName,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", objectKey, err)
	}

	s.logger.Debug("stored search result",
		zap.String("bucket", bucketName),
		zap.String("key", objectKey),
		zap.Int("businesses", len(result.Businesses)),
	)
	return objectKey, nil
}
