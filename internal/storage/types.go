package storage

import (
	"context"
	"fmt"
	"time"
)

// BlobStore is the durable image store. Paths are namespaced
// {user_id}/{job_id}/{panel_index}.png and stay stable for the lifetime of
// the job; signed URLs are short-lived and minted fresh on every poll.
type BlobStore interface {
	// Upload persists data at path and returns the canonical stored path.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, path string) ([]byte, error)
	SignedURL(path string, ttl time.Duration) (string, error)
}

// PanelPath builds the stable storage path for one panel image.
func PanelPath(userID, jobID string, index int) string {
	return fmt.Sprintf("%s/%s/%d.png", userID, jobID, index)
}

// AvatarPath builds the stable storage path for a generated avatar.
func AvatarPath(userID, jobID string) string {
	return fmt.Sprintf("%s/avatars/%s.png", userID, jobID)
}

// PhotoPath builds the transient storage path for an avatar input photo.
func PhotoPath(userID, jobID string) string {
	return fmt.Sprintf("%s/uploads/%s.png", userID, jobID)
}
