// Package rewardbank tracks what children earn beyond the daily unlock.
// Two ledgers share one shape: the bank holds discrete reward entries
// (a text like "+15 min" or "$2" per entry) and the wallet holds running
// minute and money balances. Both route a child's claim through a parent
// settlement step.
package rewardbank

import "errors"

var (
	// ErrNotFound covers a missing entry or transaction, and a child
	// acting on one that belongs to someone else.
	ErrNotFound = errors.New("reward not found")

	// ErrUnavailable is returned when a claim targets something not in a
	// claimable state, or a settlement targets something not pending.
	ErrUnavailable = errors.New("reward not available")
)

// Grant is one earned reward entering a ledger.
type Grant struct {
	Text         string
	Minutes      int
	SourceTaskID *int64
}

// Ledger is the common surface of the bank and the wallet. Accrue records
// an earned reward. RequestClaim starts a child's claim (the ref is
// ledger-specific: an entry id for the bank, a minute amount for the
// wallet) and returns the id awaiting settlement. SettleClaim is the
// parent's approve-or-reject decision on that id.
type Ledger interface {
	Accrue(childID int64, g Grant) error
	RequestClaim(childID, ref int64) (int64, error)
	SettleClaim(id int64, approve bool) error
}
