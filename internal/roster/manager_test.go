package roster

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hearthside/choreboard/internal/database"
	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/rollover"
	"github.com/hearthside/choreboard/internal/store"
)

// setupManager builds a manager over a roster holding one child ("Ada") and
// one weekday template. Pre-populating both tables keeps the default seed
// out of the way so the fixtures stay small and deterministic.
func setupManager(t *testing.T) (*Manager, *rollover.Engine, *store.TaskStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	children := store.NewChildStore(db)
	templates := store.NewTemplateStore(db)
	settings := store.NewSettingsStore(db)
	tasks := store.NewTaskStore(db)

	if _, err := children.CreateAt("Ada", 0, nil); err != nil {
		t.Fatalf("seed child: %v", err)
	}
	if _, err := templates.Create(model.DayTypeWeekday, model.CategoryHygiene, "Brush Teeth", true, nil, 1, nil); err != nil {
		t.Fatalf("seed template: %v", err)
	}

	engine := rollover.NewEngine(db, children, templates, settings, slog.Default())
	engine.SetNow(func() time.Time { return time.Date(2026, 8, 25, 7, 0, 0, 0, time.UTC) })
	return NewManager(children, engine), engine, tasks
}

func firstChild(t *testing.T, m *Manager) model.Child {
	t.Helper()
	children, err := m.List()
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) == 0 {
		t.Fatal("roster is empty")
	}
	return children[0]
}

func TestCreateRespectsMaxRoster(t *testing.T) {
	m, _, _ := setupManager(t)

	// Ada is already on the roster; four more fill it.
	for _, name := range []string{"Ben", "Cleo", "Dana", "Eli"} {
		if _, err := m.Create(name, nil, nil); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	if _, err := m.Create("Overflow", nil, nil); !errors.Is(err, ErrRosterBounds) {
		t.Errorf("err = %v, want ErrRosterBounds", err)
	}
}

func TestCreateValidatesNameAndOrder(t *testing.T) {
	m, _, _ := setupManager(t)

	if _, err := m.Create("   ", nil, nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}

	bad := 5
	if _, err := m.Create("Ben", &bad, nil); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("err = %v, want ErrInvalidOrder", err)
	}

	// Order == current size appends.
	end := 1
	child, err := m.Create("Ben", &end, nil)
	if err != nil {
		t.Fatalf("create at end: %v", err)
	}
	if child.DisplayOrder != 1 {
		t.Errorf("display_order = %d, want 1", child.DisplayOrder)
	}
}

func TestCreateBackfillsTodaysTasks(t *testing.T) {
	m, _, tasks := setupManager(t)

	child, err := m.Create("Ben", nil, nil)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	instances, err := tasks.ListByDate("2026-08-25")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	got := 0
	for _, inst := range instances {
		if inst.ChildID == child.ID {
			got++
		}
	}
	if got != 1 {
		t.Errorf("new child has %d instances, want 1", got)
	}
}

func TestCreateAfterMidnightDoesNotDuplicateBoard(t *testing.T) {
	m, engine, tasks := setupManager(t)

	// Tuesday's board exists; the clock then crosses into Wednesday.
	if err := engine.EnsureToday(); err != nil {
		t.Fatalf("ensure tuesday: %v", err)
	}
	wednesday := time.Date(2026, 8, 26, 0, 30, 0, 0, time.UTC)
	engine.SetNow(func() time.Time { return wednesday })

	// The create is the first request of the new day.
	child, err := m.Create("Ben", nil, nil)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if err := engine.EnsureToday(); err != nil {
		t.Fatalf("ensure wednesday: %v", err)
	}

	instances, err := tasks.ListByDate("2026-08-26")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	got := 0
	for _, inst := range instances {
		if inst.ChildID == child.ID {
			got++
		}
	}
	if got != 1 {
		t.Errorf("new child has %d instances for the new day, want 1", got)
	}
}

func TestUpdateReordersDensely(t *testing.T) {
	m, _, _ := setupManager(t)

	ada := firstChild(t, m)
	ben, _ := m.Create("Ben", nil, nil)
	cleo, _ := m.Create("Cleo", nil, nil)

	// Move Cleo to the front.
	front := 0
	if _, err := m.Update(cleo.ID, Patch{Order: &front}); err != nil {
		t.Fatalf("update: %v", err)
	}

	children, _ := m.List()
	wantOrder := []int64{cleo.ID, ada.ID, ben.ID}
	for i, want := range wantOrder {
		if children[i].ID != want {
			t.Errorf("position %d = child %d, want %d", i, children[i].ID, want)
		}
		if children[i].DisplayOrder != i {
			t.Errorf("child %d display_order = %d, want %d", children[i].ID, children[i].DisplayOrder, i)
		}
	}

	out := 3
	if _, err := m.Update(ada.ID, Patch{Order: &out}); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("err = %v, want ErrInvalidOrder", err)
	}
}

func TestUpdateRejectedOrderLeavesNameUntouched(t *testing.T) {
	m, _, _ := setupManager(t)
	ada := firstChild(t, m)

	name := "Renamed"
	out := 99
	if _, err := m.Update(ada.ID, Patch{Name: &name, Order: &out}); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("err = %v, want ErrInvalidOrder", err)
	}

	child, err := m.Get(ada.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if child.Name != "Ada" {
		t.Errorf("name = %q, want Ada (rejected patch must not rename)", child.Name)
	}
}

func TestUpdateColorRules(t *testing.T) {
	m, _, _ := setupManager(t)
	child := firstChild(t, m)

	valid := "#ff8800"
	updated, err := m.Update(child.ID, Patch{Color: &valid})
	if err != nil {
		t.Fatalf("set color: %v", err)
	}
	if updated.Color == nil || *updated.Color != valid {
		t.Errorf("color = %v, want %q", updated.Color, valid)
	}

	// A malformed color is ignored, not an error.
	bad := "orange"
	updated, err = m.Update(child.ID, Patch{Color: &bad})
	if err != nil {
		t.Fatalf("bad color: %v", err)
	}
	if updated.Color == nil || *updated.Color != valid {
		t.Errorf("color = %v, want unchanged %q", updated.Color, valid)
	}

	// Empty string clears it.
	none := ""
	updated, err = m.Update(child.ID, Patch{Color: &none})
	if err != nil {
		t.Fatalf("clear color: %v", err)
	}
	if updated.Color != nil {
		t.Errorf("color = %q, want cleared", *updated.Color)
	}
}

func TestUpdateRename(t *testing.T) {
	m, _, _ := setupManager(t)
	child := firstChild(t, m)

	name := "Adaline"
	updated, err := m.Update(child.ID, Patch{Name: &name})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if updated.Name != "Adaline" {
		t.Errorf("name = %q", updated.Name)
	}

	blank := "  "
	if _, err := m.Update(child.ID, Patch{Name: &blank}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}

	if _, err := m.Update(9999, Patch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRespectsMinRoster(t *testing.T) {
	m, _, _ := setupManager(t)

	ada := firstChild(t, m)
	ben, _ := m.Create("Ben", nil, nil)

	if err := m.Delete(ada.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.Delete(ben.ID); !errors.Is(err, ErrRosterBounds) {
		t.Errorf("err = %v, want ErrRosterBounds for the last child", err)
	}
	if err := m.Delete(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
