package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/murmurlabs/murmur/internal/ctxkeys"
	"github.com/murmurlabs/murmur/internal/model"
	"github.com/murmurlabs/murmur/internal/service"
)

type JournalHandler struct {
	journalService *service.JournalService
}

func NewJournalHandler(journalService *service.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entries := h.journalService.Entries(user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entry := h.journalService.Entry(user.ID, r.PathValue("id"))
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var patch model.EntryPatch
	err := json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.journalService.UpdateEntry(user.ID, r.PathValue("id"), patch)
	if err != nil {
		slog.Error("failed to update entry", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to update entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	deleted, err := h.journalService.DeleteEntry(user.ID, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to delete entry", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *JournalHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.journalService.ClearAllEntries(user.ID)
	if err != nil {
		slog.Error("failed to clear journal", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to clear journal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *JournalHandler) Latest(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entry := h.journalService.LatestEntry(user.ID)
	if entry == nil {
		writeError(w, http.StatusNotFound, "no entries yet")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entry, err := h.journalService.ToggleFavorite(user.ID, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to toggle favorite", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to toggle favorite")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	favorites := h.journalService.FavoriteEntries(user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": favorites,
		"count":   len(favorites),
	})
}

func (h *JournalHandler) Streak(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	writeJSON(w, http.StatusOK, map[string]int{
		"streak": h.journalService.CalculateStreak(user.ID),
	})
}
