package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthside/choreboard/internal/auth"
	"github.com/hearthside/choreboard/internal/model"
)

// DefaultPIN is the parent PIN a fresh install starts with.
const DefaultPIN = "1234"

const defaultRewardText = "Playtime is unlocked!"

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

const settingsCols = `id, parent_pin_hash, daily_reward_text, last_reset_date, exchange_rate_cents, updated_at`

func scanSettings(scanner interface{ Scan(...any) error }) (*model.Settings, error) {
	var st model.Settings
	var lastReset sql.NullString
	err := scanner.Scan(&st.ID, &st.ParentPINHash, &st.DailyRewardText, &lastReset, &st.ExchangeRateCents, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastReset.Valid {
		st.LastResetDate = &lastReset.String
	}
	return &st, nil
}

// GetOrCreate returns the singleton settings row, creating it with defaults
// (PIN "1234") on first access.
func (s *SettingsStore) GetOrCreate() (*model.Settings, error) {
	row := s.db.QueryRow(`SELECT ` + settingsCols + ` FROM settings WHERE id = 1`)
	st, err := scanSettings(row)
	if err == nil {
		return st, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	hash, err := auth.HashPIN(DefaultPIN)
	if err != nil {
		return nil, fmt.Errorf("hash default pin: %w", err)
	}
	// INSERT OR IGNORE so two first-requests racing here both succeed.
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO settings (id, parent_pin_hash, daily_reward_text) VALUES (1, ?, ?)`,
		hash, defaultRewardText,
	); err != nil {
		return nil, fmt.Errorf("insert settings: %w", err)
	}

	row = s.db.QueryRow(`SELECT ` + settingsCols + ` FROM settings WHERE id = 1`)
	st, err = scanSettings(row)
	if err != nil {
		return nil, fmt.Errorf("reread settings: %w", err)
	}
	return st, nil
}

func (s *SettingsStore) SetDailyRewardText(text string) error {
	_, err := s.db.Exec(
		`UPDATE settings SET daily_reward_text = ?, updated_at = ? WHERE id = 1`,
		text, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set daily reward text: %w", err)
	}
	return nil
}

func (s *SettingsStore) SetPINHash(hash string) error {
	_, err := s.db.Exec(
		`UPDATE settings SET parent_pin_hash = ?, updated_at = ? WHERE id = 1`,
		hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set pin hash: %w", err)
	}
	return nil
}

func (s *SettingsStore) SetExchangeRate(cents int) error {
	_, err := s.db.Exec(
		`UPDATE settings SET exchange_rate_cents = ?, updated_at = ? WHERE id = 1`,
		cents, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set exchange rate: %w", err)
	}
	return nil
}
