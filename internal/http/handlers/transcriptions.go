package handlers

import (
	"io"
	"net/http"
)

// maxAudioBytes caps uploaded story recordings.
const maxAudioBytes = 25 << 20

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcriptions converts a recorded story into text the client can review
// before submitting it as a comic.
func (a *App) Transcriptions(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "audio is required")
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(file)
	if err != nil || len(audio) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read audio")
		return
	}

	text, err := a.Transcriber.Transcribe(r.Context(), audio, header.Filename)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("handlers: transcription failed")
		a.error(w, http.StatusBadGateway, "transcription_failed", "failed to transcribe audio")
		return
	}
	a.json(w, http.StatusOK, transcriptionResponse{Text: text})
}
