package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/murmurlabs/murmur/internal/ctxkeys"
	"github.com/murmurlabs/murmur/internal/service"
)

type SummaryHandler struct {
	summaryService *service.SummaryService
	emailService   *service.EmailService
}

func NewSummaryHandler(summaryService *service.SummaryService, emailService *service.EmailService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		emailService:   emailService,
	}
}

func (h *SummaryHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"shouldShow": h.summaryService.ShouldShowWeeklySummary(user.ID),
		"summary":    h.summaryService.BuildWeeklySummary(user.ID),
	})
}

type markShownRequest struct {
	EmailDigest bool `json:"emailDigest"`
}

// MarkShown records that the client displayed this week's summary and
// optionally emails the digest.
func (h *SummaryHandler) MarkShown(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req markShownRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	summary := h.summaryService.BuildWeeklySummary(user.ID)

	err := h.summaryService.MarkShown(user.ID, summary)
	if err != nil {
		slog.Error("failed to mark summary shown", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to record summary")
		return
	}

	if req.EmailDigest {
		err = h.emailService.SendWeeklyDigest(user.Email, summary)
		if err != nil {
			// Digest email is best effort; the summary was recorded.
			slog.Error("failed to send weekly digest", "error", err, "user_id", user.ID)
		}
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *SummaryHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	history := h.summaryService.History(user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"summaries": history,
		"count":     len(history),
	})
}
