package domain

import "time"

// ComicStatus enumerates the comic job lifecycle states. Jobs are created as
// pending, claimed by exactly one worker (processing), and end terminal at
// complete or error. Terminal jobs are never resurrected.
type ComicStatus string

const (
	ComicStatusPending    ComicStatus = "pending"
	ComicStatusProcessing ComicStatus = "processing"
	ComicStatusComplete   ComicStatus = "complete"
	ComicStatusError      ComicStatus = "error"
)

// ComicJob tracks one story-to-comic request end to end.
//
// Invariants: ImagePaths is non-empty iff Status is complete; ErrorType is
// set iff Status is error. The worker that claims a job is its only writer.
type ComicJob struct {
	ID              string
	UserID          string
	Story           string
	Style           string
	RequestedPanels int
	Status          ComicStatus
	Title           string
	// ImagePaths holds blob-store paths of the successful panels in
	// narrative order. Failed panels are dropped from the sequence.
	ImagePaths []string
	PanelCount int
	// AvatarPath points at the user's chosen-style avatar used as the
	// identity reference for every panel.
	AvatarPath   string
	ErrorType    ErrorType
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the job reached a final state.
func (s ComicStatus) Terminal() bool {
	return s == ComicStatusComplete || s == ComicStatusError
}
