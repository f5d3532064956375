package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthside/choreboard/internal/model"
)

type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

const rewardCols = `id, child_id, reward_text, source_task_id, state, created_at, requested_at, approved_at`

func scanReward(scanner interface{ Scan(...any) error }) (*model.RewardEntry, error) {
	var e model.RewardEntry
	var sourceTaskID sql.NullInt64
	var requestedAt, approvedAt sql.NullTime

	err := scanner.Scan(&e.ID, &e.ChildID, &e.RewardText, &sourceTaskID, &e.State, &e.CreatedAt, &requestedAt, &approvedAt)
	if err != nil {
		return nil, err
	}
	if sourceTaskID.Valid {
		e.SourceTaskID = &sourceTaskID.Int64
	}
	if requestedAt.Valid {
		e.RequestedAt = &requestedAt.Time
	}
	if approvedAt.Valid {
		e.ApprovedAt = &approvedAt.Time
	}
	return &e, nil
}

func (s *RewardStore) Create(childID int64, rewardText string, sourceTaskID *int64) (*model.RewardEntry, error) {
	var src sql.NullInt64
	if sourceTaskID != nil {
		src = sql.NullInt64{Int64: *sourceTaskID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO reward_entries (child_id, reward_text, source_task_id, state) VALUES (?, ?, ?, ?)`,
		childID, rewardText, src, model.RewardAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) GetByID(id int64) (*model.RewardEntry, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM reward_entries WHERE id = ?`, id)
	e, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward entry: %w", err)
	}
	return e, nil
}

func (s *RewardStore) List() ([]model.RewardEntry, error) {
	rows, err := s.db.Query(`SELECT ` + rewardCols + ` FROM reward_entries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reward entries: %w", err)
	}
	defer rows.Close()

	var entries []model.RewardEntry
	for rows.Next() {
		e, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *RewardStore) ListByChild(childID int64) ([]model.RewardEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+rewardCols+` FROM reward_entries WHERE child_id = ? ORDER BY created_at DESC, id DESC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reward entries by child: %w", err)
	}
	defer rows.Close()

	var entries []model.RewardEntry
	for rows.Next() {
		e, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// SetState writes an entry's state and request/approval timestamps in one
// statement.
func (s *RewardStore) SetState(id int64, state string, requestedAt, approvedAt *time.Time) error {
	var ra, aa sql.NullTime
	if requestedAt != nil {
		ra = sql.NullTime{Time: requestedAt.UTC(), Valid: true}
	}
	if approvedAt != nil {
		aa = sql.NullTime{Time: approvedAt.UTC(), Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE reward_entries SET state = ?, requested_at = ?, approved_at = ? WHERE id = ?`,
		state, ra, aa, id,
	)
	if err != nil {
		return fmt.Errorf("set reward entry state: %w", err)
	}
	return nil
}

func (s *RewardStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM reward_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward entry: %w", err)
	}
	return nil
}
