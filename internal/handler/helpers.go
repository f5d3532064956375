package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hearthside/choreboard/internal/rewardbank"
	"github.com/hearthside/choreboard/internal/roster"
	"github.com/hearthside/choreboard/internal/task"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits the machine-readable error envelope the clients key on.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeServiceError maps the service-layer sentinel errors onto the API's
// error codes; anything unrecognized is a plain 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, "task_not_found")
	case errors.Is(err, task.ErrAlreadyApproved):
		writeError(w, http.StatusConflict, "already_approved")
	case errors.Is(err, roster.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, roster.ErrRosterBounds):
		writeError(w, http.StatusConflict, "roster_bounds")
	case errors.Is(err, roster.ErrInvalidOrder), errors.Is(err, roster.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "validation_failed")
	case errors.Is(err, rewardbank.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, rewardbank.ErrUnavailable):
		writeError(w, http.StatusConflict, "validation_failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func parsePathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
