package appointment

import "errors"

var ErrInvalidTransition = errors.New("invalid status transition")

// Status is the lifecycle state of an appointment. Transitions are
// enforced server side; clients only name the action, never the state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle allows moving from one
// status to another. Completed is terminal; cancelled appointments may
// be reopened back to pending.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted
	case StatusCancelled:
		return to == StatusPending
	}
	return false
}
