package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"dreamtoons/internal/domain"
)

// GCSStore persists images in a Google Cloud Storage bucket and mints V4
// signed URLs for polling clients.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: create gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	cleanPath, err := sanitizePath(path)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(cleanPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("%w: gcs write: %w", domain.ErrStorage, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: gcs close: %w", domain.ErrStorage, err)
	}
	return cleanPath, nil
}

func (s *GCSStore) Download(ctx context.Context, path string) ([]byte, error) {
	cleanPath, err := sanitizePath(path)
	if err != nil {
		return nil, err
	}
	r, err := s.client.Bucket(s.bucket).Object(cleanPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: gcs open: %w", domain.ErrStorage, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gcs read: %w", domain.ErrStorage, err)
	}
	return data, nil
}

func (s *GCSStore) SignedURL(path string, ttl time.Duration) (string, error) {
	cleanPath, err := sanitizePath(path)
	if err != nil {
		return "", err
	}
	url, err := s.client.Bucket(s.bucket).SignedURL(cleanPath, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("%w: gcs signed url: %w", domain.ErrStorage, err)
	}
	return url, nil
}

// Close releases the underlying GCS client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

var _ BlobStore = (*GCSStore)(nil)
