package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/store"
)

// TemplateHandler manages the recurring task templates the rollover engine
// materializes each day. Edits never touch instances already on the board;
// they take effect at the next rollover.
type TemplateHandler struct {
	templates *store.TemplateStore
}

func NewTemplateHandler(templates *store.TemplateStore) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type templateRequest struct {
	DayType    string  `json:"day_type"`
	Category   string  `json:"category"`
	Title      string  `json:"title"`
	Required   bool    `json:"required"`
	RewardText *string `json:"reward_text"`
	SortOrder  int     `json:"sort_order"`
	ChildID    *int64  `json:"child_id"`
}

func (req *templateRequest) validate() bool {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return false
	}
	if req.DayType != model.DayTypeWeekday && req.DayType != model.DayTypeWeekend {
		return false
	}
	return validCategory(req.Category)
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		templates []model.TaskTemplate
		err       error
	)
	if dayType := r.URL.Query().Get("day_type"); dayType != "" {
		templates, err = h.templates.ListByDayType(dayType)
	} else {
		templates, err = h.templates.List()
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if templates == nil {
		templates = []model.TaskTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validate() {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	tmpl, err := h.templates.Create(req.DayType, req.Category, req.Title, req.Required, req.RewardText, req.SortOrder, req.ChildID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	existing, err := h.templates.GetByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validate() {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	tmpl, err := h.templates.Update(id, req.DayType, req.Category, req.Title, req.Required, req.RewardText, req.SortOrder, req.ChildID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	existing, err := h.templates.GetByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	if err := h.templates.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
