package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/store"
	"github.com/hearthside/choreboard/internal/task"
)

// TaskHandler is the parent's side of the task lifecycle: reviewing,
// approving, rejecting, revoking, and editing today's board directly.
type TaskHandler struct {
	tasks  *task.Service
	store  *store.TaskStore
	logger *slog.Logger
}

func NewTaskHandler(tasks *task.Service, taskStore *store.TaskStore, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, store: taskStore, logger: logger}
}

func (h *TaskHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if err := h.tasks.Approve(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if err := h.tasks.Reject(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if err := h.tasks.Revoke(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Pending(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.tasks.PendingToday()
	if err != nil {
		h.logger.Error("list pending", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	if reviews == nil {
		reviews = []store.TaskReview{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *TaskHandler) Completed(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.tasks.CompletedToday()
	if err != nil {
		h.logger.Error("list completed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	if reviews == nil {
		reviews = []store.TaskReview{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

// ListToday returns every instance on today's board, all children.
func (h *TaskHandler) ListToday(w http.ResponseWriter, r *http.Request) {
	instances, err := h.store.ListByDate(h.tasks.Today())
	if err != nil {
		h.logger.Error("list today", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	if instances == nil {
		instances = []model.TaskInstance{}
	}
	writeJSON(w, http.StatusOK, instances)
}

type todayTaskRequest struct {
	Category   string  `json:"category"`
	Title      string  `json:"title"`
	Required   bool    `json:"required"`
	RewardText *string `json:"reward_text"`
	SortOrder  int     `json:"sort_order"`
	ChildID    *int64  `json:"child_id"`
}

// CreateToday adds a one-off task to today's board, for one child or all.
func (h *TaskHandler) CreateToday(w http.ResponseWriter, r *http.Request) {
	var req todayTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || !validCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	ids, err := h.tasks.CreateToday(task.TodayTaskInput{
		Category:   req.Category,
		Title:      req.Title,
		Required:   req.Required,
		RewardText: req.RewardText,
		SortOrder:  req.SortOrder,
		ChildID:    req.ChildID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string][]int64{"ids": ids})
}

// UpdateToday applies a partial edit to one instance. Omitted fields keep
// their values.
func (h *TaskHandler) UpdateToday(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	var req struct {
		Category   *string `json:"category"`
		Title      *string `json:"title"`
		Required   *bool   `json:"required"`
		RewardText *string `json:"reward_text"`
		SortOrder  *int    `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if req.Category != nil && !validCategory(*req.Category) {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, "validation_failed")
			return
		}
		req.Title = &trimmed
	}

	updated, err := h.tasks.UpdateToday(id, task.TodayTaskPatch{
		Category:   req.Category,
		Title:      req.Title,
		Required:   req.Required,
		RewardText: req.RewardText,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteToday(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if err := h.tasks.DeleteToday(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validCategory(category string) bool {
	for _, c := range model.Categories {
		if c == category {
			return true
		}
	}
	return false
}
