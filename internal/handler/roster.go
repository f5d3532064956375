package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/roster"
)

// RosterHandler manages the children list from the parent views.
type RosterHandler struct {
	roster *roster.Manager
}

func NewRosterHandler(manager *roster.Manager) *RosterHandler {
	return &RosterHandler{roster: manager}
}

func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	children, err := h.roster.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if children == nil {
		children = []model.Child{}
	}
	writeJSON(w, http.StatusOK, children)
}

func (h *RosterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Order *int    `json:"display_order"`
		Color *string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	child, err := h.roster.Create(req.Name, req.Order, req.Color)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, child)
}

func (h *RosterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Order *int    `json:"display_order"`
		Color *string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	child, err := h.roster.Update(id, roster.Patch{
		Name:  req.Name,
		Order: req.Order,
		Color: req.Color,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, child)
}

func (h *RosterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if err := h.roster.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
