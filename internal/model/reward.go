package model

import "time"

// Reward bank entry states.
const (
	RewardAvailable = "AVAILABLE"
	RewardPending   = "PENDING"
	RewardClaimed   = "CLAIMED"
)

// RewardEntry is a discrete claimable reward earned by a child, optionally
// traced back to the task that produced it.
type RewardEntry struct {
	ID           int64      `json:"id"`
	ChildID      int64      `json:"child_id"`
	RewardText   string     `json:"reward_text"`
	SourceTaskID *int64     `json:"source_task_id"`
	State        string     `json:"state"`
	CreatedAt    time.Time  `json:"created_at"`
	RequestedAt  *time.Time `json:"requested_at"`
	ApprovedAt   *time.Time `json:"approved_at"`
}

// Wallet transaction types and statuses.
const (
	TxnEarn    = "earn"
	TxnPlay    = "play"
	TxnCashout = "cashout"

	TxnApproved = "approved"
	TxnPending  = "pending"
	TxnRejected = "rejected"
)

// Wallet holds a child's running screen-time and money balances.
type Wallet struct {
	ID                int64 `json:"id"`
	ChildID           int64 `json:"child_id"`
	MinutesBalance    int   `json:"minutes_balance"`
	MoneyBalanceCents int   `json:"money_balance_cents"`
}

// WalletTransaction records one balance delta and its approval status.
// Balances only move through recorded transactions.
type WalletTransaction struct {
	ID           int64     `json:"id"`
	ChildID      int64     `json:"child_id"`
	Type         string    `json:"type"`
	MinutesDelta int       `json:"minutes_delta"`
	CentsDelta   int       `json:"cents_delta"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
