package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ServeFile serves blobs stored by the file backend. The URL must carry the
// exp and sig query parameters minted by SignedURL; anything else is a 403.
// This route is not registered when the GCS backend is active.
func (a *App) ServeFile(w http.ResponseWriter, r *http.Request) {
	if a.Files == nil {
		a.error(w, http.StatusNotFound, "not_found", "file serving disabled")
		return
	}
	path := chi.URLParam(r, "*")
	if path == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "path required")
		return
	}
	exp, err := strconv.ParseInt(r.URL.Query().Get("exp"), 10, 64)
	if err != nil {
		a.error(w, http.StatusForbidden, "forbidden", "invalid signature")
		return
	}
	sig := r.URL.Query().Get("sig")

	data, err := a.Files.Open(path, exp, sig)
	if err != nil {
		a.error(w, http.StatusForbidden, "forbidden", "invalid or expired signature")
		return
	}
	contentType := "application/octet-stream"
	if strings.HasSuffix(path, ".png") {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
