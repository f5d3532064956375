package task

import (
	"github.com/hearthside/choreboard/internal/model"
)

// TodayTaskInput describes a one-off task added directly to today's board.
type TodayTaskInput struct {
	Category   string
	Title      string
	Required   bool
	RewardText *string
	SortOrder  int
	ChildID    *int64 // nil fans out to every child on the roster
}

// TodayTaskPatch carries a partial edit; nil fields are left unchanged.
type TodayTaskPatch struct {
	Category   *string
	Title      *string
	Required   *bool
	RewardText *string
	SortOrder  *int
}

// CreateToday inserts a one-off task for today, for one child or for all of
// them, and returns the created instance ids.
func (s *Service) CreateToday(in TodayTaskInput) ([]int64, error) {
	today := s.Today()

	var childIDs []int64
	if in.ChildID != nil {
		child, err := s.children.GetByID(*in.ChildID)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, ErrNotFound
		}
		childIDs = []int64{child.ID}
	} else {
		children, err := s.children.List()
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			childIDs = append(childIDs, c.ID)
		}
	}

	var ids []int64
	for _, childID := range childIDs {
		t, err := s.tasks.Create(today, childID, in.Category, in.Title, in.Required, in.RewardText, in.SortOrder)
		if err != nil {
			return ids, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// UpdateToday applies a partial edit to an existing instance. State and
// timestamps are untouchable here; those move only through transitions.
func (s *Service) UpdateToday(taskID int64, patch TodayTaskPatch) (*model.TaskInstance, error) {
	t, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}

	category := t.Category
	if patch.Category != nil {
		category = *patch.Category
	}
	title := t.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	required := t.Required
	if patch.Required != nil {
		required = *patch.Required
	}
	rewardText := t.RewardText
	if patch.RewardText != nil {
		rewardText = patch.RewardText
	}
	sortOrder := t.SortOrder
	if patch.SortOrder != nil {
		sortOrder = *patch.SortOrder
	}

	return s.tasks.UpdateFields(t.ID, category, title, required, rewardText, sortOrder)
}

// DeleteToday removes a task instance outright.
func (s *Service) DeleteToday(taskID int64) error {
	t, err := s.tasks.GetByID(taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	return s.tasks.Delete(t.ID)
}
