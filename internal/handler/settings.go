package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hearthside/choreboard/internal/auth"
	"github.com/hearthside/choreboard/internal/store"
)

// SettingsHandler exposes the singleton settings row to the parent views.
// The PIN hash never leaves the server; changing the PIN requires proving
// knowledge of the current one even with a valid token.
type SettingsHandler struct {
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewSettingsHandler(settings *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetOrCreate()
	if err != nil {
		h.logger.Error("load settings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"daily_reward_text":   settings.DailyRewardText,
		"exchange_rate_cents": settings.ExchangeRateCents,
	})
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DailyRewardText   *string `json:"daily_reward_text"`
		ExchangeRateCents *int    `json:"exchange_rate_cents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	// Validate everything before writing anything; a rejected request must
	// not leave a partial update behind.
	if req.DailyRewardText != nil && *req.DailyRewardText == "" {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if req.ExchangeRateCents != nil && *req.ExchangeRateCents < 0 {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	if req.DailyRewardText != nil {
		if err := h.settings.SetDailyRewardText(*req.DailyRewardText); err != nil {
			h.logger.Error("set reward text", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error")
			return
		}
	}
	if req.ExchangeRateCents != nil {
		if err := h.settings.SetExchangeRate(*req.ExchangeRateCents); err != nil {
			h.logger.Error("set exchange rate", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error")
			return
		}
	}

	h.Get(w, r)
}

func (h *SettingsHandler) ChangePIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPIN string `json:"current_pin"`
		NewPIN     string `json:"new_pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	if len(req.NewPIN) < 4 || len(req.NewPIN) > 8 || !auth.IsDigits(req.NewPIN) {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	settings, err := h.settings.GetOrCreate()
	if err != nil {
		h.logger.Error("load settings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	if !auth.VerifyPIN(settings.ParentPINHash, req.CurrentPIN) {
		writeError(w, http.StatusUnauthorized, "credential_invalid")
		return
	}

	hash, err := auth.HashPIN(req.NewPIN)
	if err != nil {
		h.logger.Error("hash pin", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	if err := h.settings.SetPINHash(hash); err != nil {
		h.logger.Error("save pin", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
