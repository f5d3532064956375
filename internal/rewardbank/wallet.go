package rewardbank

import (
	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/store"
)

// WalletLedger is the balance-based ledger: earned minutes accumulate in a
// per-child wallet, minutes can be spent on screen time immediately, and a
// cashout converts minutes to money at the configured rate pending parent
// approval. Every balance move leaves a transaction row.
type WalletLedger struct {
	wallets  *store.WalletStore
	settings *store.SettingsStore
}

func NewWalletLedger(wallets *store.WalletStore, settings *store.SettingsStore) *WalletLedger {
	return &WalletLedger{wallets: wallets, settings: settings}
}

// Accrue credits earned minutes to the child's wallet.
func (l *WalletLedger) Accrue(childID int64, g Grant) error {
	if g.Minutes <= 0 {
		return nil
	}
	if _, err := l.wallets.ApplyDelta(childID, g.Minutes, 0); err != nil {
		return err
	}
	_, err := l.wallets.CreateTransaction(childID, model.TxnEarn, g.Minutes, 0, model.TxnApproved)
	return err
}

// RequestClaim converts minutes to money at the configured exchange rate.
// The ref is the minute amount; it is clamped to the available balance so
// the money credited always matches the minutes actually deducted. The
// resulting transaction is pending until a parent settles it.
func (l *WalletLedger) RequestClaim(childID, ref int64) (int64, error) {
	minutes := int(ref)
	if minutes <= 0 {
		return 0, ErrUnavailable
	}

	wallet, err := l.wallets.GetOrCreate(childID)
	if err != nil {
		return 0, err
	}
	if wallet.MinutesBalance == 0 {
		return 0, ErrUnavailable
	}
	if minutes > wallet.MinutesBalance {
		minutes = wallet.MinutesBalance
	}

	settings, err := l.settings.GetOrCreate()
	if err != nil {
		return 0, err
	}
	cents := minutes * settings.ExchangeRateCents

	if _, err := l.wallets.ApplyDelta(childID, -minutes, cents); err != nil {
		return 0, err
	}
	txn, err := l.wallets.CreateTransaction(childID, model.TxnCashout, -minutes, cents, model.TxnPending)
	if err != nil {
		return 0, err
	}
	return txn.ID, nil
}

// SettleClaim resolves a pending cashout. Rejection reverses the balance
// move so the minutes come back and the money goes away.
func (l *WalletLedger) SettleClaim(id int64, approve bool) error {
	txn, err := l.wallets.GetTransaction(id)
	if err != nil {
		return err
	}
	if txn == nil {
		return ErrNotFound
	}
	if txn.Status != model.TxnPending {
		return ErrUnavailable
	}

	if approve {
		return l.wallets.SetTransactionStatus(txn.ID, model.TxnApproved)
	}
	if _, err := l.wallets.ApplyDelta(txn.ChildID, -txn.MinutesDelta, -txn.CentsDelta); err != nil {
		return err
	}
	return l.wallets.SetTransactionStatus(txn.ID, model.TxnRejected)
}

// Spend deducts minutes for screen time. The wallet floors at zero, so
// spending more than the balance just empties it; the transaction records
// what was actually deducted.
func (l *WalletLedger) Spend(childID int64, minutes int) (*model.Wallet, error) {
	if minutes <= 0 {
		return nil, ErrUnavailable
	}
	wallet, err := l.wallets.GetOrCreate(childID)
	if err != nil {
		return nil, err
	}
	if minutes > wallet.MinutesBalance {
		minutes = wallet.MinutesBalance
	}

	wallet, err = l.wallets.ApplyDelta(childID, -minutes, 0)
	if err != nil {
		return nil, err
	}
	if _, err := l.wallets.CreateTransaction(childID, model.TxnPlay, -minutes, 0, model.TxnApproved); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Balance returns the child's wallet, creating an empty one if needed.
func (l *WalletLedger) Balance(childID int64) (*model.Wallet, error) {
	return l.wallets.GetOrCreate(childID)
}

// Balances returns every wallet for the parent's overview.
func (l *WalletLedger) Balances() ([]model.Wallet, error) {
	return l.wallets.List()
}

// History returns one child's transactions, newest first.
func (l *WalletLedger) History(childID int64) ([]model.WalletTransaction, error) {
	return l.wallets.ListTransactionsByChild(childID)
}
