package domain

import (
	"time"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/utils"
)

// DebtStatus is the lifecycle state of a DebtRecord
type DebtStatus string

const (
	DebtStatusPending     DebtStatus = "pending"
	DebtStatusPartialPaid DebtStatus = "partial_paid"
	DebtStatusCompleted   DebtStatus = "completed"
	DebtStatusOverdue     DebtStatus = "overdue"
)

var debtTransitions = map[DebtStatus][]DebtStatus{
	DebtStatusPending:     {DebtStatusPartialPaid, DebtStatusCompleted, DebtStatusOverdue},
	DebtStatusPartialPaid: {DebtStatusCompleted, DebtStatusOverdue},
	DebtStatusOverdue:     {DebtStatusPartialPaid, DebtStatusCompleted},
	DebtStatusCompleted:   {},
}

func (s DebtStatus) Valid() bool {
	_, ok := debtTransitions[s]
	return ok
}

// IsTerminal reports whether no further payment or transition is possible
func (s DebtStatus) IsTerminal() bool {
	return s == DebtStatusCompleted
}

// ParseDebtStatus accepts only the four canonical values. The legacy
// collection value "debt" is rejected.
func ParseDebtStatus(s string) (DebtStatus, bool) {
	st := DebtStatus(s)
	return st, st.Valid()
}

// CanTransition reports whether a persisted status may move from -> to.
// Staying in the same state is always allowed.
func CanTransition(from, to DebtStatus) bool {
	if from == to {
		return from.Valid()
	}
	for _, next := range debtTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a move between persisted statuses
func Transition(from, to DebtStatus) (DebtStatus, error) {
	if !CanTransition(from, to) {
		return from, customError.WrapInvalidStatusTransition(string(from), string(to))
	}
	return to, nil
}

// DeriveStatus computes the status from balances and the due date.
// Completed wins over overdue: a fully paid debt is never shown as overdue.
func DeriveStatus(remaining, paid Money, dueDate *time.Time, now time.Time) DebtStatus {
	switch {
	case remaining.IsZero():
		return DebtStatusCompleted
	case utils.IsPastDue(dueDate, now):
		return DebtStatusOverdue
	case paid.IsPositive():
		return DebtStatusPartialPaid
	default:
		return DebtStatusPending
	}
}
