package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/murmurlabs/murmur/internal/ctxkeys"
	"github.com/murmurlabs/murmur/internal/service"
	"github.com/murmurlabs/murmur/internal/validation"
)

type RecordHandler struct {
	recordingService *service.RecordingService
}

func NewRecordHandler(recordingService *service.RecordingService) *RecordHandler {
	return &RecordHandler{
		recordingService: recordingService,
	}
}

// Record accepts a multipart recording upload and runs the full session
// flow. Gate denials come back as structured JSON, not opaque errors, so
// the client can render the right paywall or limit screen.
func (h *RecordHandler) Record(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateAudio(header)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	language := r.FormValue("language")

	outcome, err := h.recordingService.Record(r.Context(), user.ID, audio, ext, language)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrialExpired):
			writeError(w, http.StatusForbidden, "trial_expired")
		case strings.HasPrefix(err.Error(), "LIMIT_REACHED:"):
			writeError(w, http.StatusTooManyRequests, err.Error())
		default:
			slog.Error("recording failed", "error", err, "user_id", user.ID)
			writeError(w, http.StatusBadGateway, "failed to process recording")
		}
		return
	}

	if outcome.Denied() {
		status := http.StatusTooManyRequests
		reason := "daily_limit_reached"
		if outcome.Permission.TrialExpired {
			status = http.StatusForbidden
			reason = "trial_expired"
		}
		writeJSON(w, status, map[string]any{
			"error":      reason,
			"permission": outcome.Permission,
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"entry": outcome.Entry})
}
