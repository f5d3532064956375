package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/rewardbank"
)

// RewardHandler is the parent's side of the reward bank and wallets:
// granting rewards, settling claims, and reviewing balances.
type RewardHandler struct {
	bank   *rewardbank.Bank
	wallet *rewardbank.WalletLedger
}

func NewRewardHandler(bank *rewardbank.Bank, wallet *rewardbank.WalletLedger) *RewardHandler {
	return &RewardHandler{bank: bank, wallet: wallet}
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.bank.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.RewardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Grant records an earned reward. Text goes to the bank; minutes go to the
// wallet. A single grant can carry both.
func (h *RewardHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChildID      int64  `json:"child_id"`
		Text         string `json:"text"`
		Minutes      int    `json:"minutes"`
		SourceTaskID *int64 `json:"source_task_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" && req.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	grant := rewardbank.Grant{Text: req.Text, Minutes: req.Minutes, SourceTaskID: req.SourceTaskID}
	if req.Text != "" {
		if err := h.bank.Accrue(req.ChildID, grant); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Minutes > 0 {
		if err := h.wallet.Accrue(req.ChildID, grant); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusCreated)
}

// Settle resolves a pending reward entry claim.
func (h *RewardHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	if err := h.bank.SettleClaim(id, req.Approve); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	if err := h.bank.Remove(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RewardHandler) Wallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.wallet.Balances()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if wallets == nil {
		wallets = []model.Wallet{}
	}
	writeJSON(w, http.StatusOK, wallets)
}

func (h *RewardHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "child_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	txns, err := h.wallet.History(childID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if txns == nil {
		txns = []model.WalletTransaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

// SettleTransaction resolves a pending cashout.
func (h *RewardHandler) SettleTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	if err := h.wallet.SettleClaim(id, req.Approve); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
