package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/rewardbank"
	"github.com/hearthside/choreboard/internal/task"
)

// ChildHandler covers everything a child can do from the kiosk without a
// parent token: claiming and unclaiming tasks, asking for banked rewards,
// and spending or cashing out wallet minutes.
type ChildHandler struct {
	tasks  *task.Service
	bank   *rewardbank.Bank
	wallet *rewardbank.WalletLedger
}

func NewChildHandler(tasks *task.Service, bank *rewardbank.Bank, wallet *rewardbank.WalletLedger) *ChildHandler {
	return &ChildHandler{tasks: tasks, bank: bank, wallet: wallet}
}

func (h *ChildHandler) Claim(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	taskID, err := parsePathID(r, "task_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	if err := h.tasks.Claim(childID, taskID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChildHandler) Unclaim(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	taskID, err := parsePathID(r, "task_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	if err := h.tasks.Unclaim(childID, taskID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRewards shows a child their own banked rewards.
func (h *ChildHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	entries, err := h.bank.ListByChild(childID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.RewardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// RequestReward asks a parent to honor a banked reward entry.
func (h *ChildHandler) RequestReward(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}
	rewardID, err := parsePathID(r, "reward_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	id, err := h.bank.RequestClaim(childID, rewardID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// Wallet returns the child's balances.
func (h *ChildHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	wallet, err := h.wallet.Balance(childID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// Cashout converts wallet minutes to money, pending parent approval.
func (h *ChildHandler) Cashout(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	txnID, err := h.wallet.RequestClaim(childID, int64(req.Minutes))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"transaction_id": txnID})
}

// Spend deducts wallet minutes for screen time, no approval needed.
func (h *ChildHandler) Spend(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed")
		return
	}

	wallet, err := h.wallet.Spend(childID, req.Minutes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}
