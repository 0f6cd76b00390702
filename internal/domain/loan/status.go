package loan

import "github.com/BruksfildServices01/equipment-rental/internal/httperr"

// ===============================
// Loan Status
// ===============================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusReturned Status = "returned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusReturned:
		return true
	}
	return false
}

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusReturned
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Transitions
// ===============================

var errInvalidState = httperr.ErrValidation("invalid_state", "loan is not in a state that allows this operation")

// ParseDecision accepts only the two outcomes of a pending request.
func ParseDecision(s string) (Status, error) {
	switch Status(s) {
	case StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", httperr.ErrValidation("invalid_decision", "decision must be approved or rejected")
}

func CanDecide(current Status) error {
	if current != StatusPending {
		return errInvalidState
	}
	return nil
}

func CanReturn(current Status) error {
	if current != StatusApproved {
		return errInvalidState
	}
	return nil
}

// CanEdit covers admin corrections of loan dates or quantity.
func CanEdit(current Status) error {
	if current != StatusPending {
		return errInvalidState
	}
	return nil
}

// CanDelete refuses returned loans; their return must be deleted first.
func CanDelete(current Status) error {
	switch current {
	case StatusPending, StatusApproved, StatusRejected:
		return nil
	}
	return errInvalidState
}

// CanUndoReturn guards deleting or re-dating a return record.
func CanUndoReturn(current Status) error {
	if current != StatusReturned {
		return errInvalidState
	}
	return nil
}

// Active reports whether a loan in this status keeps units off the shelf or
// reserved, which blocks a second request for the same equipment.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}
