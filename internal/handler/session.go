package handler

import (
	"log/slog"
	"net/http"

	"github.com/murmurlabs/murmur/internal/ctxkeys"
	"github.com/murmurlabs/murmur/internal/service"
)

type SessionHandler struct {
	accessService *service.AccessService
}

func NewSessionHandler(accessService *service.AccessService) *SessionHandler {
	return &SessionHandler{
		accessService: accessService,
	}
}

// Status returns the gate's current answer plus the plan limits, so the
// client can render the record button and any paywall state in one call.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	profile := ctxkeys.Profile(r.Context())

	perm, err := h.accessService.CanRecordSession(user.ID)
	if err != nil {
		slog.Error("failed to evaluate session permission", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to check session status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"permission": perm,
		"limits":     h.accessService.SessionLimits(profile),
	})
}
