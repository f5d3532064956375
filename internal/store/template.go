package store

import (
	"database/sql"
	"fmt"

	"github.com/hearthside/choreboard/internal/model"
)

type TemplateStore struct {
	db *sql.DB
}

func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateCols = `id, day_type, category, title, required, reward_text, sort_order, child_id`

func scanTemplate(scanner interface{ Scan(...any) error }) (*model.TaskTemplate, error) {
	var t model.TaskTemplate
	var required int
	var rewardText sql.NullString
	var childID sql.NullInt64

	err := scanner.Scan(&t.ID, &t.DayType, &t.Category, &t.Title, &required, &rewardText, &t.SortOrder, &childID)
	if err != nil {
		return nil, err
	}
	t.Required = required != 0
	if rewardText.Valid {
		t.RewardText = &rewardText.String
	}
	if childID.Valid {
		t.ChildID = &childID.Int64
	}
	return &t, nil
}

func (s *TemplateStore) List() ([]model.TaskTemplate, error) {
	rows, err := s.db.Query(`SELECT ` + templateCols + ` FROM task_templates ORDER BY day_type ASC, sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.TaskTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *TemplateStore) ListByDayType(dayType string) ([]model.TaskTemplate, error) {
	rows, err := s.db.Query(
		`SELECT `+templateCols+` FROM task_templates WHERE day_type = ? ORDER BY sort_order ASC`,
		dayType,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates by day type: %w", err)
	}
	defer rows.Close()

	var templates []model.TaskTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *TemplateStore) GetByID(id int64) (*model.TaskTemplate, error) {
	row := s.db.QueryRow(`SELECT `+templateCols+` FROM task_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *TemplateStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM task_templates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return n, nil
}

func (s *TemplateStore) Create(dayType, category, title string, required bool, rewardText *string, sortOrder int, childID *int64) (*model.TaskTemplate, error) {
	var req int
	if required {
		req = 1
	}
	var rt sql.NullString
	if rewardText != nil {
		rt = sql.NullString{String: *rewardText, Valid: true}
	}
	var cid sql.NullInt64
	if childID != nil {
		cid = sql.NullInt64{Int64: *childID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO task_templates (day_type, category, title, required, reward_text, sort_order, child_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		dayType, category, title, req, rt, sortOrder, cid,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TemplateStore) Update(id int64, dayType, category, title string, required bool, rewardText *string, sortOrder int, childID *int64) (*model.TaskTemplate, error) {
	var req int
	if required {
		req = 1
	}
	var rt sql.NullString
	if rewardText != nil {
		rt = sql.NullString{String: *rewardText, Valid: true}
	}
	var cid sql.NullInt64
	if childID != nil {
		cid = sql.NullInt64{Int64: *childID, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE task_templates SET day_type = ?, category = ?, title = ?, required = ?, reward_text = ?, sort_order = ?, child_id = ? WHERE id = ?`,
		dayType, category, title, req, rt, sortOrder, cid, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.GetByID(id)
}

func (s *TemplateStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM task_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
