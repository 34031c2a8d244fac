package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"dreamtoons/internal/cache"
	"dreamtoons/internal/domain"
	"dreamtoons/internal/infra"
	"dreamtoons/internal/middleware"
	"dreamtoons/internal/moderation"
	"dreamtoons/internal/storage"
)

// transcriber converts recorded audio into story text.
type transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// App bundles the handler dependencies. Handlers stay thin: validate,
// authorize, delegate, render.
type App struct {
	Config      *infra.Config
	Logger      *infra.Logger
	Comics      domain.ComicJobRepository
	Avatars     domain.AvatarJobRepository
	Guard       *moderation.Gate
	Transcriber transcriber
	Store       storage.BlobStore
	// Files is set only when the file storage backend is active; it backs
	// the /files signed-URL serving route.
	Files  *storage.FileStore
	Status *cache.StatusCache
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
