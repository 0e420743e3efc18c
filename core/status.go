package core

import (
	"fmt"

	"civicfix-be/models"
)

// successors maps each status to its single legal next state. Rejected
// is not reachable through this table; only Reject moves an issue there,
// and only from pending.
var successors = map[models.IssueStatus]models.IssueStatus{
	models.Pending:    models.InProgress,
	models.InProgress: models.Working,
	models.Working:    models.Resolved,
	models.Resolved:   models.Closed,
}

// NextStatus returns the single legal successor of current, or false if
// the issue is in a terminal state (closed or rejected).
func NextStatus(current models.IssueStatus) (models.IssueStatus, bool) {
	next, ok := successors[current]
	return next, ok
}

// ValidateTransition checks that moving from current to target follows
// the single-successor chain. Skipping ahead or moving backwards loses
// the audit trail the timeline exists to provide, so neither is allowed.
func ValidateTransition(current, target models.IssueStatus) error {
	next, ok := successors[current]
	if !ok {
		return fmt.Errorf("%w: issue is already %s", ErrInvalidTransition, current)
	}
	if target != next {
		return fmt.Errorf("%w: cannot move from %s to %s, next stage is %s",
			ErrInvalidTransition, current, target, next)
	}
	return nil
}

// CanReject reports whether an issue in the given status may be
// rejected. Rejection is terminal and only reachable from pending.
func CanReject(current models.IssueStatus) bool {
	return current == models.Pending
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(status models.IssueStatus) bool {
	return status == models.Closed || status == models.Rejected
}
