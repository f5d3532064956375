package model

import "time"

// Settings is the singleton configuration row. LastResetDate is the
// watermark marking through which calendar day task instances have been
// materialized from templates.
type Settings struct {
	ID                int64     `json:"-"`
	ParentPINHash     string    `json:"-"`
	DailyRewardText   string    `json:"daily_reward_text"`
	LastResetDate     *string   `json:"-"`
	ExchangeRateCents int       `json:"exchange_rate_cents"`
	UpdatedAt         time.Time `json:"-"`
}
