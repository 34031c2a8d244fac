package handlers

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dreamtoons/internal/domain"
	"dreamtoons/internal/storage"
)

// maxPhotoBytes caps uploaded avatar photos.
const maxPhotoBytes = 10 << 20

// avatarStylePrompts maps a style name to the image-edit instruction used to
// stylize the uploaded photo. The map doubles as the list of valid styles.
var avatarStylePrompts = map[string]string{
	"webtoon":         "Redraw this person as a webtoon comic character with clean bold outlines, cel shading and vivid colors. Preserve facial structure, hair style and skin tone.",
	"simple line art": "Redraw this person as minimalist black-and-white line art with a single continuous stroke feel. Preserve facial structure and hair style.",
	"noir":            "Redraw this person as a high-contrast noir comic character with dramatic shadows and ink hatching. Preserve facial structure, hair style and expression.",
	"watercolor":      "Redraw this person as a soft watercolor illustration with gentle washes and visible paper texture. Preserve facial structure, hair style and skin tone.",
	"retro anime":     "Redraw this person as a 90s retro anime character with film-grain colors and expressive eyes. Preserve facial structure, hair style and skin tone.",
}

type avatarJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// AvatarsCreate accepts a portrait photo and a style, stores the photo and
// enqueues an avatar job.
func (a *App) AvatarsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	style := strings.TrimSpace(r.FormValue("style"))
	prompt, ok := avatarStylePrompts[style]
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported style")
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "photo is required")
		return
	}
	defer file.Close()
	photo, err := io.ReadAll(file)
	if err != nil || len(photo) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read photo")
		return
	}

	jobID := uuid.NewString()
	photoPath, err := a.Store.Upload(r.Context(), storage.PhotoPath(userID, jobID), photo, "image/png")
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: photo upload failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store photo")
		return
	}

	job := &domain.AvatarJob{
		ID:        jobID,
		UserID:    userID,
		StyleName: style,
		Prompt:    prompt,
		PhotoPath: photoPath,
		Status:    domain.AvatarStatusProcessing,
	}
	if err := a.Avatars.Insert(r.Context(), job); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: enqueue avatar failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.json(w, http.StatusAccepted, avatarJobResponse{JobID: job.ID, Status: string(job.Status)})
}

type avatarStatusResponse struct {
	JobID        string `json:"job_id"`
	Status       string `json:"status"`
	Style        string `json:"style"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// AvatarStatus reports avatar job progress, minting a fresh signed URL for
// the finished avatar on each poll.
func (a *App) AvatarStatus(w http.ResponseWriter, r *http.Request) {
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

	job, err := a.Avatars.GetForUser(r.Context(), jobID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: avatar status lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}

	resp := avatarStatusResponse{
		JobID:        job.ID,
		Status:       string(job.Status),
		Style:        job.StyleName,
		ErrorType:    string(job.ErrorType),
		ErrorMessage: job.ErrorMessage,
	}
	if job.AvatarPath != "" {
		url, err := a.Store.SignedURL(job.AvatarPath, a.Config.SignedURLTTL)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to sign avatar url")
			return
		}
		resp.AvatarURL = url
	}
	a.json(w, http.StatusOK, resp)
}

// Styles lists the avatar styles available for creation.
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(avatarStylePrompts))
	for name := range avatarStylePrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	a.json(w, http.StatusOK, map[string]any{"styles": names})
}
