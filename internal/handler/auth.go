package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hearthside/choreboard/internal/auth"
	"github.com/hearthside/choreboard/internal/store"
)

// AuthHandler exchanges the parent PIN for a short-lived bearer token.
type AuthHandler struct {
	settings *store.SettingsStore
	issuer   *auth.TokenIssuer
	logger   *slog.Logger
}

func NewAuthHandler(settings *store.SettingsStore, issuer *auth.TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{settings: settings, issuer: issuer, logger: logger}
}

func (h *AuthHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	settings, err := h.settings.GetOrCreate()
	if err != nil {
		h.logger.Error("load settings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	if !auth.VerifyPIN(settings.ParentPINHash, req.PIN) {
		writeError(w, http.StatusUnauthorized, "credential_invalid")
		return
	}

	token, err := h.issuer.Mint()
	if err != nil {
		h.logger.Error("mint token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_in": int(auth.TokenTTL.Seconds()),
	})
}
