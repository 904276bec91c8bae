package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/murmurlabs/murmur/internal/ctxkeys"
	"github.com/murmurlabs/murmur/internal/service"
)

type AccountHandler struct {
	profileService *service.ProfileService
}

func NewAccountHandler(profileService *service.ProfileService) *AccountHandler {
	return &AccountHandler{
		profileService: profileService,
	}
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    ctxkeys.User(r.Context()),
		"profile": ctxkeys.Profile(r.Context()),
	})
}

type updateAccountRequest struct {
	Name string `json:"name"`
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateAccountRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	err = h.profileService.UpdateName(user.ID, req.Name)
	if err != nil {
		slog.Error("failed to update profile", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type premiumRequest struct {
	Premium bool `json:"premium"`
}

// SetPremium lands the boolean outcome of a completed purchase or a
// restore. Receipt verification happens in the payment provider before
// this is called.
func (h *AccountHandler) SetPremium(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req premiumRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.profileService.SetPremium(user.ID, req.Premium)
	if err != nil {
		slog.Error("failed to set premium", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to update subscription")
		return
	}

	slog.Info("premium flag updated", "user_id", user.ID, "premium", req.Premium)
	w.WriteHeader(http.StatusNoContent)
}
