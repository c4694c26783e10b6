package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore stores media blobs in an S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	secure bool
}

// NewMinioStore connects to the storage endpoint and ensures the bucket exists.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: bucket, secure: useSSL}, nil
}

func (s *MinioStore) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}

	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, name), nil
}

func (s *MinioStore) Delete(ctx context.Context, blobURL string) error {
	u, err := url.Parse(blobURL)
	if err != nil {
		return fmt.Errorf("invalid blob url %q: %w", blobURL, err)
	}
	// Object names are flat, so the last path segment is the object.
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return fmt.Errorf("invalid blob url %q: no object name", blobURL)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", name, err)
	}
	return nil
}
