// Package task governs the lifecycle of daily task instances:
// OPEN -> PENDING (child claims) -> APPROVED (parent approves), with
// unclaim, reject, and revoke all routing back to OPEN. REJECTED is a
// declared state no transition currently reaches.
package task

import (
	"time"

	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/store"
)

type Service struct {
	tasks    *store.TaskStore
	children *store.ChildStore
	now      func() time.Time
}

func NewService(tasks *store.TaskStore, children *store.ChildStore) *Service {
	return &Service{tasks: tasks, children: children, now: time.Now}
}

// SetNow overrides the service clock. Tests only.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// getOwned loads a task and enforces ownership; a task belonging to a
// different child is indistinguishable from a missing one.
func (s *Service) getOwned(childID, taskID int64) (*model.TaskInstance, error) {
	t, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.ChildID != childID {
		return nil, ErrNotFound
	}
	return t, nil
}

// Claim moves an OPEN task to PENDING and stamps the claim time. Claiming
// an already-PENDING task succeeds without effect; claiming an APPROVED
// task fails.
func (s *Service) Claim(childID, taskID int64) error {
	t, err := s.getOwned(childID, taskID)
	if err != nil {
		return err
	}
	switch t.State {
	case model.TaskApproved:
		return ErrAlreadyApproved
	case model.TaskOpen:
		claimed := s.now()
		return s.tasks.SetState(t.ID, model.TaskPending, &claimed, nil)
	default:
		return nil
	}
}

// Unclaim returns a PENDING task to OPEN and clears both timestamps. Any
// other state is left untouched, silently.
func (s *Service) Unclaim(childID, taskID int64) error {
	t, err := s.getOwned(childID, taskID)
	if err != nil {
		return err
	}
	if t.State != model.TaskPending {
		return nil
	}
	return s.tasks.SetState(t.ID, model.TaskOpen, nil, nil)
}

// Approve moves a task to APPROVED from any state, stamping the approval
// time. If the child never claimed it, the claim time is backfilled so an
// approved task always carries both stamps.
func (s *Service) Approve(taskID int64) error {
	t, err := s.tasks.GetByID(taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	approved := s.now()
	claimed := t.ClaimedAt
	if claimed == nil {
		claimed = &approved
	}
	return s.tasks.SetState(t.ID, model.TaskApproved, claimed, &approved)
}

// Reject undoes a pending claim, returning the task to OPEN with both
// timestamps cleared.
func (s *Service) Reject(taskID int64) error {
	return s.reset(taskID)
}

// Revoke undoes a prior approval. Mechanically identical to Reject; the
// two names exist because parents mean different things by them.
func (s *Service) Revoke(taskID int64) error {
	return s.reset(taskID)
}

func (s *Service) reset(taskID int64) error {
	t, err := s.tasks.GetByID(taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	return s.tasks.SetState(t.ID, model.TaskOpen, nil, nil)
}

// PendingToday lists today's tasks awaiting parent approval.
func (s *Service) PendingToday() ([]store.TaskReview, error) {
	return s.tasks.ListReviewByState(s.Today(), model.TaskPending)
}

// CompletedToday lists today's tasks a parent has approved.
func (s *Service) CompletedToday() ([]store.TaskReview, error) {
	return s.tasks.ListReviewByState(s.Today(), model.TaskApproved)
}

// Today returns the service's current date in board format.
func (s *Service) Today() string {
	return s.now().Format("2006-01-02")
}
