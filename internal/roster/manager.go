// Package roster manages the ordered list of children. Display orders are
// kept dense (0..N-1, no gaps) across every create, reorder, and delete.
package roster

import (
	"errors"
	"strings"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/rollover"
	"github.com/hearthside/choreboard/internal/store"
)

// Roster size bounds. The kiosk layout fits five columns, and an empty
// roster would leave nothing to display.
const (
	MinChildren = 1
	MaxChildren = 5
)

var (
	ErrNotFound     = errors.New("child not found")
	ErrRosterBounds = errors.New("roster size out of bounds")
	ErrInvalidOrder = errors.New("display order out of range")
	ErrInvalidName  = errors.New("name is required")
)

type Manager struct {
	children *store.ChildStore
	rollover *rollover.Engine
}

func NewManager(children *store.ChildStore, rollover *rollover.Engine) *Manager {
	return &Manager{children: children, rollover: rollover}
}

// List returns the roster in display order.
func (m *Manager) List() ([]model.Child, error) {
	return m.children.List()
}

// Get returns one child, or ErrNotFound.
func (m *Manager) Get(id int64) (*model.Child, error) {
	child, err := m.children.GetByID(id)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrNotFound
	}
	return child, nil
}

// Create adds a child at the requested display order (default: the end) and
// backfills today's tasks so the new child does not face an empty board.
// The rollover runs first; backfilling against a stale watermark would let
// the next state read materialize the new child's board a second time.
func (m *Manager) Create(name string, order *int, color *string) (*model.Child, error) {
	if err := m.rollover.EnsureToday(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	count, err := m.children.Count()
	if err != nil {
		return nil, err
	}
	if count >= MaxChildren {
		return nil, ErrRosterBounds
	}

	at := count
	if order != nil {
		if *order < 0 || *order > count {
			return nil, ErrInvalidOrder
		}
		at = *order
	}

	child, err := m.children.CreateAt(name, at, normalizeColor(color, nil))
	if err != nil {
		return nil, err
	}

	if err := m.rollover.BackfillChild(child.ID); err != nil {
		return nil, err
	}
	return child, nil
}

// Patch is a partial child update; nil fields are left unchanged.
type Patch struct {
	Name  *string
	Order *int
	Color *string
}

// Update applies a partial edit. An order change removes the child from the
// ordered sequence, reinserts it at the requested index, and renumbers the
// whole roster positionally. A color is accepted only as a 7-character
// "#RRGGBB" string or cleared with ""; anything else is silently ignored.
// Every field is validated before anything is written, so a rejected patch
// leaves the child untouched.
func (m *Manager) Update(id int64, patch Patch) (*model.Child, error) {
	if err := m.rollover.EnsureToday(); err != nil {
		return nil, err
	}

	child, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	name := child.Name
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, ErrInvalidName
		}
		name = trimmed
	}

	color := normalizeColor(patch.Color, child.Color)

	var ids []int64
	if patch.Order != nil {
		children, err := m.children.List()
		if err != nil {
			return nil, err
		}
		if *patch.Order < 0 || *patch.Order >= len(children) {
			return nil, ErrInvalidOrder
		}

		ids = make([]int64, 0, len(children))
		for _, c := range children {
			if c.ID != id {
				ids = append(ids, c.ID)
			}
		}
		at := *patch.Order
		ids = append(ids[:at], append([]int64{id}, ids[at:]...)...)
	}

	updated, err := m.children.Update(id, name, color)
	if err != nil {
		return nil, err
	}

	if ids != nil {
		if err := m.children.Reorder(ids); err != nil {
			return nil, err
		}
		return m.Get(id)
	}
	return updated, nil
}

// Delete removes a child with an explicit cascade over everything the child
// owns, then compacts the remaining display orders.
func (m *Manager) Delete(id int64) error {
	if err := m.rollover.EnsureToday(); err != nil {
		return err
	}
	if _, err := m.Get(id); err != nil {
		return err
	}

	count, err := m.children.Count()
	if err != nil {
		return err
	}
	if count <= MinChildren {
		return ErrRosterBounds
	}

	return m.children.DeleteCascade(id)
}

// normalizeColor applies the color acceptance rule: nil keeps the current
// value, "" clears it, a 7-character "#"-prefixed string replaces it, and
// any other supplied value is ignored.
func normalizeColor(supplied, current *string) *string {
	if supplied == nil {
		return current
	}
	if *supplied == "" {
		return nil
	}
	if len(*supplied) == 7 && (*supplied)[0] == '#' {
		return supplied
	}
	return current
}
