package rewardbank

import (
	"time"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/store"
)

// Bank is the entry-based ledger: each earned reward is a row the child
// can ask to claim (AVAILABLE -> PENDING) and a parent settles
// (PENDING -> CLAIMED, or back to AVAILABLE on rejection).
type Bank struct {
	rewards *store.RewardStore
	now     func() time.Time
}

func NewBank(rewards *store.RewardStore) *Bank {
	return &Bank{rewards: rewards, now: time.Now}
}

// SetNow overrides the bank clock. Tests only.
func (b *Bank) SetNow(now func() time.Time) {
	b.now = now
}

// Accrue records a new AVAILABLE entry for the child.
func (b *Bank) Accrue(childID int64, g Grant) error {
	_, err := b.rewards.Create(childID, g.Text, g.SourceTaskID)
	return err
}

// RequestClaim moves one of the child's AVAILABLE entries to PENDING and
// stamps the request time. The ref is the entry id.
func (b *Bank) RequestClaim(childID, ref int64) (int64, error) {
	entry, err := b.rewards.GetByID(ref)
	if err != nil {
		return 0, err
	}
	if entry == nil || entry.ChildID != childID {
		return 0, ErrNotFound
	}
	if entry.State != model.RewardAvailable {
		return 0, ErrUnavailable
	}

	requested := b.now()
	if err := b.rewards.SetState(entry.ID, model.RewardPending, &requested, nil); err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// SettleClaim resolves a PENDING entry. Approval marks it CLAIMED with an
// approval stamp; rejection returns it to AVAILABLE with both stamps
// cleared, so the child can ask again later.
func (b *Bank) SettleClaim(id int64, approve bool) error {
	entry, err := b.rewards.GetByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotFound
	}
	if entry.State != model.RewardPending {
		return ErrUnavailable
	}

	if !approve {
		return b.rewards.SetState(entry.ID, model.RewardAvailable, nil, nil)
	}
	approved := b.now()
	return b.rewards.SetState(entry.ID, model.RewardClaimed, entry.RequestedAt, &approved)
}

// List returns every entry, newest first, for the parent's review screen.
func (b *Bank) List() ([]model.RewardEntry, error) {
	return b.rewards.List()
}

// ListByChild returns one child's entries, newest first.
func (b *Bank) ListByChild(childID int64) ([]model.RewardEntry, error) {
	return b.rewards.ListByChild(childID)
}

// Remove deletes an entry outright. Parent use only.
func (b *Bank) Remove(id int64) error {
	entry, err := b.rewards.GetByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotFound
	}
	return b.rewards.Delete(entry.ID)
}
