package store

import (
	"database/sql"
	"fmt"

	"github.com/hearthside/choreboard/internal/model"
)

type WalletStore struct {
	db *sql.DB
}

func NewWalletStore(db *sql.DB) *WalletStore {
	return &WalletStore{db: db}
}

const walletCols = `id, child_id, minutes_balance, money_balance_cents`

func scanWallet(scanner interface{ Scan(...any) error }) (*model.Wallet, error) {
	var w model.Wallet
	err := scanner.Scan(&w.ID, &w.ChildID, &w.MinutesBalance, &w.MoneyBalanceCents)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WalletStore) GetByChild(childID int64) (*model.Wallet, error) {
	row := s.db.QueryRow(`SELECT `+walletCols+` FROM wallets WHERE child_id = ?`, childID)
	w, err := scanWallet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

// GetOrCreate returns the child's wallet, creating an empty one if needed.
func (s *WalletStore) GetOrCreate(childID int64) (*model.Wallet, error) {
	w, err := s.GetByChild(childID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO wallets (child_id) VALUES (?)`, childID,
	); err != nil {
		return nil, fmt.Errorf("insert wallet: %w", err)
	}
	return s.GetByChild(childID)
}

func (s *WalletStore) List() ([]model.Wallet, error) {
	rows, err := s.db.Query(`SELECT ` + walletCols + ` FROM wallets ORDER BY child_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []model.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

// ApplyDelta adjusts both balances in one statement. The minutes balance
// floors at zero; money may go negative only through an explicit reversal.
func (s *WalletStore) ApplyDelta(childID int64, minutesDelta, centsDelta int) (*model.Wallet, error) {
	if _, err := s.GetOrCreate(childID); err != nil {
		return nil, err
	}
	_, err := s.db.Exec(
		`UPDATE wallets SET minutes_balance = MAX(minutes_balance + ?, 0), money_balance_cents = money_balance_cents + ? WHERE child_id = ?`,
		minutesDelta, centsDelta, childID,
	)
	if err != nil {
		return nil, fmt.Errorf("apply wallet delta: %w", err)
	}
	return s.GetByChild(childID)
}

// --- Transaction ledger ---

const txnCols = `id, child_id, type, minutes_delta, cents_delta, status, created_at`

func scanTransaction(scanner interface{ Scan(...any) error }) (*model.WalletTransaction, error) {
	var t model.WalletTransaction
	err := scanner.Scan(&t.ID, &t.ChildID, &t.Type, &t.MinutesDelta, &t.CentsDelta, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *WalletStore) CreateTransaction(childID int64, txnType string, minutesDelta, centsDelta int, status string) (*model.WalletTransaction, error) {
	result, err := s.db.Exec(
		`INSERT INTO wallet_transactions (child_id, type, minutes_delta, cents_delta, status) VALUES (?, ?, ?, ?, ?)`,
		childID, txnType, minutesDelta, centsDelta, status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetTransaction(id)
}

func (s *WalletStore) GetTransaction(id int64) (*model.WalletTransaction, error) {
	row := s.db.QueryRow(`SELECT `+txnCols+` FROM wallet_transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *WalletStore) SetTransactionStatus(id int64, status string) error {
	_, err := s.db.Exec(`UPDATE wallet_transactions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set transaction status: %w", err)
	}
	return nil
}

func (s *WalletStore) ListTransactionsByChild(childID int64) ([]model.WalletTransaction, error) {
	rows, err := s.db.Query(
		`SELECT `+txnCols+` FROM wallet_transactions WHERE child_id = ? ORDER BY created_at DESC, id DESC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.WalletTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}
