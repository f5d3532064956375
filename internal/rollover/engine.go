// Package rollover materializes each day's task instances from the
// recurring templates, exactly once per calendar day. It has no scheduler:
// EnsureToday runs as a side effect of every state read and roster change,
// so the first request after midnight pays the rollover cost.
package rollover

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/store"
)

type Engine struct {
	db        *sql.DB
	children  *store.ChildStore
	templates *store.TemplateStore
	settings  *store.SettingsStore
	logger    *slog.Logger
	now       func() time.Time

	// Serializes concurrent first-requests of the day so the date gate and
	// the insert loop act as one unit.
	mu sync.Mutex
}

func NewEngine(db *sql.DB, children *store.ChildStore, templates *store.TemplateStore, settings *store.SettingsStore, logger *slog.Logger) *Engine {
	return &Engine{
		db:        db,
		children:  children,
		templates: templates,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNow overrides the engine's clock. Tests only.
func (e *Engine) SetNow(now func() time.Time) {
	e.now = now
}

// Today returns the server's local calendar date as YYYY-MM-DD.
func (e *Engine) Today() string {
	return e.now().Format("2006-01-02")
}

// DayType classifies a moment as WEEKDAY or WEEKEND (Saturday/Sunday).
func DayType(t time.Time) string {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return model.DayTypeWeekend
	default:
		return model.DayTypeWeekday
	}
}

// EnsureToday creates today's task instances from the active templates if
// that has not happened yet. Safe to call arbitrarily often; the
// last_reset_date watermark gates re-entry, and the gate check, insert loop,
// and watermark update commit as a single transaction.
func (e *Engine) EnsureToday() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.Seed(); err != nil {
		return err
	}
	if _, err := e.settings.GetOrCreate(); err != nil {
		return err
	}

	now := e.now()
	today := now.Format("2006-01-02")

	tx, err := e.db.Begin()
	if err != nil {
		return fmt.Errorf("begin rollover tx: %w", err)
	}
	defer tx.Rollback()

	// Re-read the watermark inside the transaction.
	var lastReset sql.NullString
	if err := tx.QueryRow(`SELECT last_reset_date FROM settings WHERE id = 1`).Scan(&lastReset); err != nil {
		return fmt.Errorf("read watermark: %w", err)
	}
	if lastReset.Valid && lastReset.String == today {
		return nil
	}

	// All reads go through the transaction; the pool runs a single
	// connection, so a query on the bare DB here would block on our own tx.
	childIDs, err := listChildIDs(tx)
	if err != nil {
		return err
	}
	templates, err := listTemplates(tx, DayType(now))
	if err != nil {
		return err
	}

	created := 0
	for _, childID := range childIDs {
		n, err := insertInstances(tx, today, childID, templates)
		if err != nil {
			return err
		}
		created += n
	}

	if _, err := tx.Exec(
		`UPDATE settings SET last_reset_date = ?, updated_at = ? WHERE id = 1`,
		today, now.UTC(),
	); err != nil {
		return fmt.Errorf("advance watermark: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rollover: %w", err)
	}

	e.logger.Info("daily rollover complete",
		"date", today,
		"day_type", DayType(now),
		"children", len(childIDs),
		"instances", created,
	)
	return nil
}

func listChildIDs(tx *sql.Tx) ([]int64, error) {
	rows, err := tx.Query(`SELECT id FROM children ORDER BY display_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan child id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func listTemplates(tx *sql.Tx, dayType string) ([]model.TaskTemplate, error) {
	rows, err := tx.Query(
		`SELECT id, day_type, category, title, required, reward_text, sort_order, child_id
		 FROM task_templates WHERE day_type = ? ORDER BY sort_order ASC`,
		dayType,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.TaskTemplate
	for rows.Next() {
		var t model.TaskTemplate
		var required int
		var rewardText sql.NullString
		var childID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.DayType, &t.Category, &t.Title, &required, &rewardText, &t.SortOrder, &childID); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.Required = required != 0
		if rewardText.Valid {
			t.RewardText = &rewardText.String
		}
		if childID.Valid {
			t.ChildID = &childID.Int64
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// BackfillChild replays today's templates for a single child, used when a
// child joins the roster after the day already rolled over. Template edits
// are never retroactive; this one-time roster backfill is the exception
// that keeps a new child from facing an empty board.
func (e *Engine) BackfillChild(childID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	today := now.Format("2006-01-02")

	templates, err := e.templates.ListByDayType(DayType(now))
	if err != nil {
		return err
	}

	tx, err := e.db.Begin()
	if err != nil {
		return fmt.Errorf("begin backfill tx: %w", err)
	}
	defer tx.Rollback()

	n, err := insertInstances(tx, today, childID, templates)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit backfill: %w", err)
	}

	e.logger.Info("backfilled tasks for new child", "child_id", childID, "instances", n)
	return nil
}

// insertInstances creates OPEN instances for every template applicable to
// the child, skipping templates scoped to someone else.
func insertInstances(tx *sql.Tx, date string, childID int64, templates []model.TaskTemplate) (int, error) {
	created := 0
	for _, t := range templates {
		if t.ChildID != nil && *t.ChildID != childID {
			continue
		}
		var required int
		if t.Required {
			required = 1
		}
		var rewardText sql.NullString
		if t.RewardText != nil {
			rewardText = sql.NullString{String: *t.RewardText, Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO task_instances (date, child_id, category, title, required, reward_text, sort_order, state)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			date, childID, t.Category, t.Title, required, rewardText, t.SortOrder, model.TaskOpen,
		); err != nil {
			return created, fmt.Errorf("insert instance %q: %w", t.Title, err)
		}
		created++
	}
	return created, nil
}
