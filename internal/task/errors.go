package task

import "errors"

var (
	// ErrNotFound covers both a missing instance and a child acting on a
	// task that belongs to someone else.
	ErrNotFound = errors.New("task not found")

	// ErrAlreadyApproved is returned when a child tries to claim a task a
	// parent has already approved.
	ErrAlreadyApproved = errors.New("task already approved")
)
