package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "opencaption/internal/app/errors"
)

// ArtifactStore mirrors local files to remote storage.
type ArtifactStore interface {
	Put(ctx context.Context, key, localPath, contentType string, metadata map[string]string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MinioConfig configures the MinIO mirror.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// MinioStore implements ArtifactStore using MinIO
type MinioStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

var _ ArtifactStore = (*MinioStore)(nil)

// NewMinioStore creates a MinIO client and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, endpoint: cfg.Endpoint, useSSL: cfg.UseSSL}, nil
}

// Put uploads localPath under key and returns the object URL.
func (s *MinioStore) Put(ctx context.Context, key, localPath, contentType string, metadata map[string]string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.KindPersistence, "open artifact")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.KindPersistence, "stat artifact")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	userMetadata := map[string]string{"uploaded-at": time.Now().UTC().Format(time.RFC3339)}
	for k, v := range metadata {
		userMetadata[k] = v
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: userMetadata,
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.KindPersistence, "upload artifact to MinIO")
	}
	return s.URL(key), nil
}

// Delete removes an object. Deleting a missing key succeeds.
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.Wrap(err, apperrors.KindPersistence, "delete artifact from MinIO")
	}
	return nil
}

// URL returns the URL for accessing an object
func (s *MinioStore) URL(key string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, key)
}
