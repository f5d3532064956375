// Package snapshot assembles the full kiosk view for today: every child,
// their tasks grouped by category, and the unlock computation.
package snapshot

import (
	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/rollover"
	"github.com/hearthside/choreboard/internal/store"
)

// CategoryState is one category column on a child's board.
type CategoryState struct {
	Tasks    []model.TaskInstance `json:"tasks"`
	Approved int                  `json:"approved"`
	Total    int                  `json:"total"`
}

// ChildState is one child's column set plus their unlock computation.
type ChildState struct {
	ID               int64                    `json:"id"`
	Name             string                   `json:"name"`
	Color            *string                  `json:"color"`
	DisplayOrder     int                      `json:"display_order"`
	Categories       map[string]CategoryState `json:"categories"`
	RequiredTotal    int                      `json:"required_total"`
	RequiredApproved int                      `json:"required_approved"`
	Unlocked         bool                     `json:"unlocked"`
	PercentComplete  int                      `json:"percent_complete"`
	PendingCount     int                      `json:"pending_count"`
}

// State is the complete kiosk snapshot returned by GET /api/state.
type State struct {
	Date            string       `json:"date"`
	DailyRewardText string       `json:"daily_reward_text"`
	Children        []ChildState `json:"children"`
}

type Builder struct {
	children *store.ChildStore
	tasks    *store.TaskStore
	settings *store.SettingsStore
	rollover *rollover.Engine
}

func NewBuilder(children *store.ChildStore, tasks *store.TaskStore, settings *store.SettingsStore, rollover *rollover.Engine) *Builder {
	return &Builder{children: children, tasks: tasks, settings: settings, rollover: rollover}
}

// Build runs the daily rollover if it has not happened yet, then aggregates
// today's instances into per-child, per-category state. A child is unlocked
// when every required task is approved; with no required tasks the unlock
// holds vacuously while percent stays at zero.
func (b *Builder) Build() (*State, error) {
	if err := b.rollover.EnsureToday(); err != nil {
		return nil, err
	}

	settings, err := b.settings.GetOrCreate()
	if err != nil {
		return nil, err
	}
	children, err := b.children.List()
	if err != nil {
		return nil, err
	}

	today := b.rollover.Today()
	tasks, err := b.tasks.ListByDate(today)
	if err != nil {
		return nil, err
	}

	byChild := make(map[int64][]model.TaskInstance, len(children))
	for _, t := range tasks {
		byChild[t.ChildID] = append(byChild[t.ChildID], t)
	}

	state := &State{
		Date:            today,
		DailyRewardText: settings.DailyRewardText,
		Children:        make([]ChildState, 0, len(children)),
	}
	for _, child := range children {
		state.Children = append(state.Children, buildChild(child, byChild[child.ID]))
	}
	return state, nil
}

func buildChild(child model.Child, tasks []model.TaskInstance) ChildState {
	cs := ChildState{
		ID:           child.ID,
		Name:         child.Name,
		Color:        child.Color,
		DisplayOrder: child.DisplayOrder,
		Categories:   make(map[string]CategoryState, len(model.Categories)),
	}

	// Every category appears in the output, even when empty, so the kiosk
	// always renders the same three columns.
	for _, category := range model.Categories {
		cs.Categories[category] = CategoryState{Tasks: []model.TaskInstance{}}
	}

	for _, t := range tasks {
		cat, ok := cs.Categories[t.Category]
		if !ok {
			cat = CategoryState{Tasks: []model.TaskInstance{}}
		}
		cat.Tasks = append(cat.Tasks, t)
		cat.Total++
		if t.State == model.TaskApproved {
			cat.Approved++
		}
		cs.Categories[t.Category] = cat

		if t.Required {
			cs.RequiredTotal++
			if t.State == model.TaskApproved {
				cs.RequiredApproved++
			}
		}
		if t.State == model.TaskPending {
			cs.PendingCount++
		}
	}

	cs.Unlocked = cs.RequiredTotal == cs.RequiredApproved
	if cs.RequiredTotal > 0 {
		cs.PercentComplete = cs.RequiredApproved * 100 / cs.RequiredTotal
	}
	return cs
}
