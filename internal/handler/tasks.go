package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/murmurlabs/murmur/internal/ctxkeys"
	"github.com/murmurlabs/murmur/internal/model"
	"github.com/murmurlabs/murmur/internal/service"
)

type TaskHandler struct {
	journalService *service.JournalService
}

func NewTaskHandler(journalService *service.JournalService) *TaskHandler {
	return &TaskHandler{
		journalService: journalService,
	}
}

type addTaskRequest struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"`
}

func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req addTaskRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Duration < 0 {
		writeError(w, http.StatusBadRequest, "duration must not be negative")
		return
	}

	entry, err := h.journalService.AddTaskToEntry(user.ID, r.PathValue("id"), req.Title, req.Duration)
	if err != nil {
		slog.Error("failed to add task", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to add task")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entry, err := h.journalService.ToggleTaskComplete(user.ID, r.PathValue("id"), r.PathValue("taskId"))
	if err != nil {
		slog.Error("failed to toggle task", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to toggle task")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry or task not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var patch model.TaskPatch
	err := json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.journalService.UpdateTask(user.ID, r.PathValue("id"), r.PathValue("taskId"), patch)
	if err != nil {
		slog.Error("failed to update task", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry or task not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *TaskHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entry, err := h.journalService.RemoveTaskFromEntry(user.ID, r.PathValue("id"), r.PathValue("taskId"))
	if err != nil {
		slog.Error("failed to remove task", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to remove task")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry or task not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *TaskHandler) Pending(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	pending := h.journalService.AllPendingTasks(user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": pending,
		"count": len(pending),
	})
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	writeJSON(w, http.StatusOK, h.journalService.TaskStats(user.ID))
}
