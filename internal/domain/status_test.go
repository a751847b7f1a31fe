package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDeriveStatus(t *testing.T) {
	due := date(2025, 9, 8)
	now := date(2025, 9, 20)

	tests := []struct {
		name      string
		remaining Money
		paid      Money
		dueDate   *time.Time
		now       time.Time
		expected  DebtStatus
	}{
		{name: "nothing paid, no due date", remaining: 100, paid: 0, expected: DebtStatusPending, now: now},
		{name: "nothing paid, due in future", remaining: 100, paid: 0, dueDate: &due, now: date(2025, 9, 1), expected: DebtStatusPending},
		{name: "partly paid, due in future", remaining: 60, paid: 40, dueDate: &due, now: date(2025, 9, 1), expected: DebtStatusPartialPaid},
		{name: "partly paid, no due date", remaining: 60, paid: 40, now: now, expected: DebtStatusPartialPaid},
		{name: "partly paid, past due", remaining: 8000000, paid: 2000000, dueDate: &due, now: now, expected: DebtStatusOverdue},
		{name: "nothing paid, past due", remaining: 100, paid: 0, dueDate: &due, now: now, expected: DebtStatusOverdue},
		{name: "at due date instant is not overdue", remaining: 100, paid: 0, dueDate: &due, now: due, expected: DebtStatusPending},
		{name: "fully paid wins over overdue", remaining: 0, paid: 100, dueDate: &due, now: now, expected: DebtStatusCompleted},
		{name: "fully paid, no due date", remaining: 0, paid: 100, now: now, expected: DebtStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := DeriveStatus(tt.remaining, tt.paid, tt.dueDate, tt.now)
			second := DeriveStatus(tt.remaining, tt.paid, tt.dueDate, tt.now)
			assert.Equal(t, tt.expected, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestDeriveStatus_CompletionAbsorbsOverdue(t *testing.T) {
	due := date(2020, 1, 1)
	for _, offset := range []int{1, 30, 365, 3650} {
		now := due.AddDate(0, 0, offset)
		assert.Equal(t, DebtStatusCompleted, DeriveStatus(0, 500, &due, now))
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to DebtStatus
		allowed  bool
	}{
		{DebtStatusPending, DebtStatusPartialPaid, true},
		{DebtStatusPending, DebtStatusCompleted, true},
		{DebtStatusPending, DebtStatusOverdue, true},
		{DebtStatusPartialPaid, DebtStatusCompleted, true},
		{DebtStatusPartialPaid, DebtStatusOverdue, true},
		{DebtStatusPartialPaid, DebtStatusPending, false},
		{DebtStatusOverdue, DebtStatusPartialPaid, true},
		{DebtStatusOverdue, DebtStatusCompleted, true},
		{DebtStatusOverdue, DebtStatusPending, false},
		{DebtStatusCompleted, DebtStatusPending, false},
		{DebtStatusCompleted, DebtStatusOverdue, false},
		{DebtStatusCompleted, DebtStatusPartialPaid, false},
		{DebtStatusOverdue, DebtStatusOverdue, true},
		{DebtStatus("debt"), DebtStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransition_RejectsLeavingCompleted(t *testing.T) {
	status, err := Transition(DebtStatusCompleted, DebtStatusOverdue)
	assert.Equal(t, DebtStatusCompleted, status)
	assert.True(t, errors.Is(err, customError.ErrInvalidStatusTransition))
}

func TestParseDebtStatus(t *testing.T) {
	for _, s := range []string{"pending", "partial_paid", "completed", "overdue"} {
		st, ok := ParseDebtStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, DebtStatus(s), st)
	}

	_, ok := ParseDebtStatus("debt")
	assert.False(t, ok)
	_, ok = ParseDebtStatus("")
	assert.False(t, ok)
}

func TestDebtStatus_IsTerminal(t *testing.T) {
	for status := range debtTransitions {
		assert.Equal(t, status == DebtStatusCompleted, status.IsTerminal(), status)
	}
}
