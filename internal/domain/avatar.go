package domain

import "time"

// AvatarStatus enumerates the avatar job lifecycle states. Avatar jobs start
// processing immediately; there is no queued fan-out behind them.
type AvatarStatus string

const (
	AvatarStatusProcessing AvatarStatus = "processing"
	AvatarStatusComplete   AvatarStatus = "complete"
	AvatarStatusError      AvatarStatus = "error"
)

// AvatarJob tracks a single stylized-avatar generation. The input photo is
// stored transiently at PhotoPath, decoded once by the worker and never
// referenced again after the job settles.
type AvatarJob struct {
	ID           string
	UserID       string
	StyleName    string
	Prompt       string
	PhotoPath    string
	Status       AvatarStatus
	AvatarPath   string
	ErrorType    ErrorType
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the avatar job reached a final state.
func (s AvatarStatus) Terminal() bool {
	return s == AvatarStatusComplete || s == AvatarStatusError
}
