package model

import "time"

// Day types a template can target.
const (
	DayTypeWeekday = "WEEKDAY"
	DayTypeWeekend = "WEEKEND"
)

// Task categories. Every task belongs to exactly one.
const (
	CategorySchoolwork = "SCHOOLWORK"
	CategoryHygiene    = "HYGIENE"
	CategoryHelpful    = "HELPFUL"
)

// Categories lists the fixed display categories in kiosk order.
var Categories = []string{CategorySchoolwork, CategoryHygiene, CategoryHelpful}

// Task instance states. REJECTED is declared for completeness but no
// transition currently leaves a task in it; reject routes back to OPEN.
const (
	TaskOpen     = "OPEN"
	TaskPending  = "PENDING"
	TaskApproved = "APPROVED"
	TaskRejected = "REJECTED"
)

// TaskTemplate is a recurring task definition. ChildID nil means the
// template applies to every child on the roster.
type TaskTemplate struct {
	ID         int64   `json:"id"`
	DayType    string  `json:"day_type"`
	Category   string  `json:"category"`
	Title      string  `json:"title"`
	Required   bool    `json:"required"`
	RewardText *string `json:"reward_text"`
	SortOrder  int     `json:"sort_order"`
	ChildID    *int64  `json:"child_id"`
}

// TaskInstance is a concrete task for one child on one calendar date.
type TaskInstance struct {
	ID         int64      `json:"id"`
	Date       string     `json:"date"` // YYYY-MM-DD
	ChildID    int64      `json:"child_id"`
	Category   string     `json:"category"`
	Title      string     `json:"title"`
	Required   bool       `json:"required"`
	RewardText *string    `json:"reward_text"`
	SortOrder  int        `json:"sort_order"`
	State      string     `json:"state"`
	ClaimedAt  *time.Time `json:"claimed_at"`
	ApprovedAt *time.Time `json:"approved_at"`
}
