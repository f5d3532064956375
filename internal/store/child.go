package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthside/choreboard/internal/model"
)

type ChildStore struct {
	db *sql.DB
}

func NewChildStore(db *sql.DB) *ChildStore {
	return &ChildStore{db: db}
}

const childCols = `id, name, display_order, color, created_at, updated_at`

func scanChild(scanner interface{ Scan(...any) error }) (*model.Child, error) {
	var c model.Child
	var color sql.NullString
	err := scanner.Scan(&c.ID, &c.Name, &c.DisplayOrder, &color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if color.Valid {
		c.Color = &color.String
	}
	return &c, nil
}

func (s *ChildStore) List() ([]model.Child, error) {
	rows, err := s.db.Query(`SELECT ` + childCols + ` FROM children ORDER BY display_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var children []model.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, *c)
	}
	return children, rows.Err()
}

func (s *ChildStore) GetByID(id int64) (*model.Child, error) {
	row := s.db.QueryRow(`SELECT `+childCols+` FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	return c, nil
}

func (s *ChildStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM children`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return n, nil
}

// CreateAt inserts a child at the given display order, shifting every child
// at or after that position down by one slot.
func (s *ChildStore) CreateAt(name string, displayOrder int, color *string) (*model.Child, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE children SET display_order = display_order + 1 WHERE display_order >= ?`,
		displayOrder,
	); err != nil {
		return nil, fmt.Errorf("shift display orders: %w", err)
	}

	var c sql.NullString
	if color != nil {
		c = sql.NullString{String: *color, Valid: true}
	}
	result, err := tx.Exec(
		`INSERT INTO children (name, display_order, color) VALUES (?, ?, ?)`,
		name, displayOrder, c,
	)
	if err != nil {
		return nil, fmt.Errorf("insert child: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// Update writes the child's name and color in one statement. A nil color
// clears the column.
func (s *ChildStore) Update(id int64, name string, color *string) (*model.Child, error) {
	var c sql.NullString
	if color != nil {
		c = sql.NullString{String: *color, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE children SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, c, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update child: %w", err)
	}
	return s.GetByID(id)
}

// Reorder assigns each listed child its positional index as display order.
func (s *ChildStore) Reorder(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE children SET display_order = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.Exec(i, id); err != nil {
			return fmt.Errorf("reorder child %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// DeleteCascade removes a child together with everything the child owns
// (task instances, child-scoped templates, reward entries, wallet rows) and
// compacts the remaining display orders back to 0..N-1. The cascade is an
// explicit step here, not a database-level ON DELETE.
func (s *ChildStore) DeleteCascade(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		desc  string
		query string
	}{
		{"delete wallet transactions", `DELETE FROM wallet_transactions WHERE child_id = ?`},
		{"delete wallet", `DELETE FROM wallets WHERE child_id = ?`},
		{"delete reward entries", `DELETE FROM reward_entries WHERE child_id = ?`},
		{"delete task instances", `DELETE FROM task_instances WHERE child_id = ?`},
		{"delete scoped templates", `DELETE FROM task_templates WHERE child_id = ?`},
		{"delete child", `DELETE FROM children WHERE id = ?`},
	}
	for _, step := range steps {
		if _, err := tx.Exec(step.query, id); err != nil {
			return fmt.Errorf("%s: %w", step.desc, err)
		}
	}

	rows, err := tx.Query(`SELECT id FROM children ORDER BY display_order ASC`)
	if err != nil {
		return fmt.Errorf("list remaining children: %w", err)
	}
	var remaining []int64
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return fmt.Errorf("scan child id: %w", err)
		}
		remaining = append(remaining, cid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate children: %w", err)
	}

	for i, cid := range remaining {
		if _, err := tx.Exec(`UPDATE children SET display_order = ? WHERE id = ?`, i, cid); err != nil {
			return fmt.Errorf("compact display order: %w", err)
		}
	}

	return tx.Commit()
}
