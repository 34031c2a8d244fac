package domain

import "context"

// ComicJobRepository is the status-store contract the orchestrator owns.
// Callers only mutate fields they own: the worker writes status, title,
// image_paths and error fields; the API only inserts and reads.
type ComicJobRepository interface {
	Insert(ctx context.Context, job *ComicJob) error
	// Claim atomically moves the oldest pending job to processing and
	// returns it. Returns ErrNotFound when the queue is empty.
	Claim(ctx context.Context) (*ComicJob, error)
	UpdateTitle(ctx context.Context, jobID, title string) error
	Complete(ctx context.Context, jobID string, imagePaths []string, panelCount int) error
	Fail(ctx context.Context, jobID string, errType ErrorType, message string) error
	Get(ctx context.Context, jobID string) (*ComicJob, error)
	GetForUser(ctx context.Context, jobID, userID string) (*ComicJob, error)
}

// AvatarJobRepository is the single-item variant of the same contract.
type AvatarJobRepository interface {
	Insert(ctx context.Context, job *AvatarJob) error
	Claim(ctx context.Context) (*AvatarJob, error)
	Complete(ctx context.Context, jobID, avatarPath string) error
	Fail(ctx context.Context, jobID string, errType ErrorType, message string) error
	GetForUser(ctx context.Context, jobID, userID string) (*AvatarJob, error)
	// Finalize links a finished avatar to the user and style records.
	Finalize(ctx context.Context, userID, styleName, avatarPath string) error
	// AvatarForStyle returns the user's newest avatar path for a style,
	// or ErrNotFound when the style has not been unlocked yet.
	AvatarForStyle(ctx context.Context, userID, styleName string) (string, error)
}
