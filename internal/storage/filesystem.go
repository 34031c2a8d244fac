package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dreamtoons/internal/domain"
)

// FileStore persists images onto the local filesystem. It is intended for
// development and test environments where an object storage service is not
// available. Signed URLs point at the API's /files handler and carry an
// HMAC signature checked there.
type FileStore struct {
	basePath string
	baseURL  string
	signer   *URLSigner
}

// NewFileStore initializes a FileStore rooted at basePath. baseURL is the
// public origin the API serves /files from.
func NewFileStore(basePath, baseURL string, signer *URLSigner) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if signer == nil {
		return nil, errors.New("storage: url signer is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		signer:   signer,
	}, nil
}

func (s *FileStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanPath, err := sanitizePath(path)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: ensure directory: %w", domain.ErrStorage, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write file: %w", domain.ErrStorage, err)
	}
	return cleanPath, nil
}

func (s *FileStore) Download(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanPath, err := sanitizePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(cleanPath)))
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %w", domain.ErrStorage, err)
	}
	return data, nil
}

// SignedURL mints a fresh expiring URL for path. URLs are never cached or
// persisted; the stored path is the stable reference.
func (s *FileStore) SignedURL(path string, ttl time.Duration) (string, error) {
	cleanPath, err := sanitizePath(path)
	if err != nil {
		return "", err
	}
	exp, sig := s.signer.Sign(cleanPath, ttl)
	q := url.Values{}
	q.Set("exp", fmt.Sprintf("%d", exp))
	q.Set("sig", sig)
	return fmt.Sprintf("%s/files/%s?%s", s.baseURL, cleanPath, q.Encode()), nil
}

// Open resolves a previously stored path for serving, re-checking the
// signature parameters minted by SignedURL.
func (s *FileStore) Open(path string, exp int64, sig string) ([]byte, error) {
	cleanPath, err := sanitizePath(path)
	if err != nil {
		return nil, err
	}
	if err := s.signer.Verify(cleanPath, exp, sig); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(cleanPath)))
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %w", domain.ErrStorage, err)
	}
	return data, nil
}

// sanitizePath normalizes a path and prevents escaping the storage root.
func sanitizePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: path is required", domain.ErrStorage)
	}
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimLeft(path, "/")
	cleaned := filepath.ToSlash(filepath.Clean(path))
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: invalid path %q", domain.ErrStorage, path)
	}
	return cleaned, nil
}

var _ BlobStore = (*FileStore)(nil)
