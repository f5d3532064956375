package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthside/choreboard/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, date, child_id, category, title, required, reward_text, sort_order, state, claimed_at, approved_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.TaskInstance, error) {
	var t model.TaskInstance
	var required int
	var rewardText sql.NullString
	var claimedAt, approvedAt sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.Date, &t.ChildID, &t.Category, &t.Title,
		&required, &rewardText, &t.SortOrder, &t.State,
		&claimedAt, &approvedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Required = required != 0
	if rewardText.Valid {
		t.RewardText = &rewardText.String
	}
	if claimedAt.Valid {
		t.ClaimedAt = &claimedAt.Time
	}
	if approvedAt.Valid {
		t.ApprovedAt = &approvedAt.Time
	}
	return &t, nil
}

func (s *TaskStore) GetByID(id int64) (*model.TaskInstance, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM task_instances WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) ListByDate(date string) ([]model.TaskInstance, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM task_instances WHERE date = ? ORDER BY child_id ASC, category ASC, sort_order ASC`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks by date: %w", err)
	}
	defer rows.Close()

	var tasks []model.TaskInstance
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// TaskReview is one row of the parent's pending/completed review list.
type TaskReview struct {
	ID        int64  `json:"id"`
	ChildID   int64  `json:"child_id"`
	ChildName string `json:"child_name"`
	Title     string `json:"title"`
	Category  string `json:"category"`
}

// ListReviewByState returns today's tasks in the given state joined with
// the owning child, ordered for parent review.
func (s *TaskStore) ListReviewByState(date, state string) ([]TaskReview, error) {
	rows, err := s.db.Query(
		`SELECT t.id, c.id, c.name, t.title, t.category
		 FROM task_instances t
		 JOIN children c ON c.id = t.child_id
		 WHERE t.date = ? AND t.state = ?
		 ORDER BY c.display_order ASC, t.category ASC, t.sort_order ASC`,
		date, state,
	)
	if err != nil {
		return nil, fmt.Errorf("list review tasks: %w", err)
	}
	defer rows.Close()

	var reviews []TaskReview
	for rows.Next() {
		var r TaskReview
		if err := rows.Scan(&r.ID, &r.ChildID, &r.ChildName, &r.Title, &r.Category); err != nil {
			return nil, fmt.Errorf("scan review task: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *TaskStore) Create(date string, childID int64, category, title string, required bool, rewardText *string, sortOrder int) (*model.TaskInstance, error) {
	var req int
	if required {
		req = 1
	}
	var rt sql.NullString
	if rewardText != nil {
		rt = sql.NullString{String: *rewardText, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO task_instances (date, child_id, category, title, required, reward_text, sort_order, state) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		date, childID, category, title, req, rt, sortOrder, model.TaskOpen,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// UpdateFields rewrites a task's descriptive fields, leaving its state and
// timestamps alone.
func (s *TaskStore) UpdateFields(id int64, category, title string, required bool, rewardText *string, sortOrder int) (*model.TaskInstance, error) {
	var req int
	if required {
		req = 1
	}
	var rt sql.NullString
	if rewardText != nil {
		rt = sql.NullString{String: *rewardText, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE task_instances SET category = ?, title = ?, required = ?, reward_text = ?, sort_order = ? WHERE id = ?`,
		category, title, req, rt, sortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

// SetState writes a task's state and both timestamps in one statement so a
// transition never half-applies.
func (s *TaskStore) SetState(id int64, state string, claimedAt, approvedAt *time.Time) error {
	var ca, aa sql.NullTime
	if claimedAt != nil {
		ca = sql.NullTime{Time: claimedAt.UTC(), Valid: true}
	}
	if approvedAt != nil {
		aa = sql.NullTime{Time: approvedAt.UTC(), Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE task_instances SET state = ?, claimed_at = ?, approved_at = ? WHERE id = ?`,
		state, ca, aa, id,
	)
	if err != nil {
		return fmt.Errorf("set task state: %w", err)
	}
	return nil
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM task_instances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *TaskStore) CountForDate(date string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM task_instances WHERE date = ?`, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks for date: %w", err)
	}
	return n, nil
}
