package handler

import (
	"log/slog"
	"net/http"

	"github.com/hearthside/choreboard/internal/snapshot"
)

// StateHandler serves the kiosk's single read: the full board for today.
type StateHandler struct {
	builder *snapshot.Builder
	logger  *slog.Logger
}

func NewStateHandler(builder *snapshot.Builder, logger *slog.Logger) *StateHandler {
	return &StateHandler{builder: builder, logger: logger}
}

func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.builder.Build()
	if err != nil {
		h.logger.Error("build state", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, state)
}
