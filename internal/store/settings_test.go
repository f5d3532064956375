package store

import (
	"testing"

	"github.com/hearthside/choreboard/internal/auth"
	"github.com/hearthside/choreboard/internal/database"
)

func setupSettingsTestDB(t *testing.T) *SettingsStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSettingsStore(db)
}

func TestSettingsDefaults(t *testing.T) {
	ss := setupSettingsTestDB(t)

	settings, err := ss.GetOrCreate()
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if settings.DailyRewardText != "Playtime is unlocked!" {
		t.Errorf("daily_reward_text = %q", settings.DailyRewardText)
	}
	if settings.ExchangeRateCents != 25 {
		t.Errorf("exchange_rate_cents = %d, want 25", settings.ExchangeRateCents)
	}
	if settings.LastResetDate != nil {
		t.Errorf("last_reset_date = %v, want nil on fresh install", *settings.LastResetDate)
	}
	if !auth.VerifyPIN(settings.ParentPINHash, DefaultPIN) {
		t.Error("default PIN should verify")
	}

	// Second call returns the same row, not a fresh one.
	again, err := ss.GetOrCreate()
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.ID != settings.ID {
		t.Errorf("id = %d, want %d", again.ID, settings.ID)
	}
}

func TestSettingsSetters(t *testing.T) {
	ss := setupSettingsTestDB(t)
	if _, err := ss.GetOrCreate(); err != nil {
		t.Fatalf("get or create: %v", err)
	}

	if err := ss.SetDailyRewardText("Movie night!"); err != nil {
		t.Fatalf("set reward text: %v", err)
	}
	if err := ss.SetExchangeRate(50); err != nil {
		t.Fatalf("set exchange rate: %v", err)
	}
	hash, err := auth.HashPIN("4321")
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	if err := ss.SetPINHash(hash); err != nil {
		t.Fatalf("set pin hash: %v", err)
	}

	settings, err := ss.GetOrCreate()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if settings.DailyRewardText != "Movie night!" {
		t.Errorf("daily_reward_text = %q", settings.DailyRewardText)
	}
	if settings.ExchangeRateCents != 50 {
		t.Errorf("exchange_rate_cents = %d, want 50", settings.ExchangeRateCents)
	}
	if !auth.VerifyPIN(settings.ParentPINHash, "4321") {
		t.Error("new PIN should verify")
	}
	if auth.VerifyPIN(settings.ParentPINHash, DefaultPIN) {
		t.Error("old PIN should no longer verify")
	}
}
