package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dreamtoons/internal/domain"
)

const maxStoryLength = 4000

type comicGenerateRequest struct {
	Story string `json:"story"`
	// Audio is a base64-encoded recording, accepted as an alternative to
	// story and transcribed before moderation.
	Audio      string `json:"audio"`
	AudioName  string `json:"audio_name"`
	Style      string `json:"style"`
	PanelCount int    `json:"panel_count"`
}

type comicJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ComicsGenerate accepts a story, screens it and enqueues a comic job. The
// response is the job handle; all heavy work happens in the worker.
func (a *App) ComicsGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req comicGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Story = strings.TrimSpace(req.Story)
	req.Style = strings.TrimSpace(req.Style)
	if req.Story == "" && req.Audio != "" {
		audio, err := base64.StdEncoding.DecodeString(req.Audio)
		if err != nil || len(audio) == 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid audio encoding")
			return
		}
		text, err := a.Transcriber.Transcribe(r.Context(), audio, req.AudioName)
		if err != nil {
			a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: transcription failed")
			a.error(w, http.StatusBadGateway, "transcription_failed", "failed to transcribe audio")
			return
		}
		req.Story = strings.TrimSpace(text)
	}
	if req.Story == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "story is required")
		return
	}
	if len(req.Story) > maxStoryLength {
		a.error(w, http.StatusBadRequest, "bad_request", "story is too long")
		return
	}
	if req.Style == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "style is required")
		return
	}
	if req.PanelCount <= 0 || req.PanelCount > a.Config.MaxPanels {
		req.PanelCount = a.Config.MaxPanels
	}

	if err := a.Guard.Check(r.Context(), req.Story); err != nil {
		a.error(w, http.StatusUnprocessableEntity, "content_rejected", err.Error())
		return
	}

	avatarPath, err := a.Avatars.AvatarForStyle(r.Context(), userID, req.Style)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusConflict, "avatar_required", "create an avatar in this style first")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to resolve avatar")
		return
	}

	job := &domain.ComicJob{
		ID:              uuid.NewString(),
		UserID:          userID,
		Story:           req.Story,
		Style:           req.Style,
		RequestedPanels: req.PanelCount,
		Status:          domain.ComicStatusPending,
		AvatarPath:      avatarPath,
	}
	if err := a.Comics.Insert(r.Context(), job); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: enqueue comic failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.json(w, http.StatusAccepted, comicJobResponse{JobID: job.ID, Status: string(job.Status)})
}

type comicStatusResponse struct {
	JobID        string   `json:"job_id"`
	Status       string   `json:"status"`
	Title        string   `json:"title,omitempty"`
	PanelCount   int      `json:"panel_count,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`
	ErrorType    string   `json:"error_type,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// ComicStatus reports job progress. The job record is cached briefly per
// user+job; signed URLs are minted fresh on every response so a stale cache
// can never serve an expired link.
func (a *App) ComicStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}

	cached, err := a.Status.Get(userID+"/"+jobID, func() (any, error) {
		return a.Comics.GetForUser(r.Context(), jobID, userID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: comic status lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	job := cached.(*domain.ComicJob)

	resp := comicStatusResponse{
		JobID:        job.ID,
		Status:       string(job.Status),
		Title:        job.Title,
		PanelCount:   job.PanelCount,
		ErrorType:    string(job.ErrorType),
		ErrorMessage: job.ErrorMessage,
	}
	for _, path := range job.ImagePaths {
		url, err := a.Store.SignedURL(path, a.Config.SignedURLTTL)
		if err != nil {
			a.Logger.Error().Err(err).Str("path", path).Msg("handlers: sign url failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to sign image url")
			return
		}
		resp.ImageURLs = append(resp.ImageURLs, url)
	}
	a.json(w, http.StatusOK, resp)
}
