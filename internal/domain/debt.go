package domain

import (
	"time"

	"github.com/google/uuid"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/utils"
)

// DebtKind decides whether the counterparty is a customer or a supplier
type DebtKind string

const (
	DebtKindCustomer DebtKind = "customer_debt"
	DebtKindSupplier DebtKind = "supplier_debt"
)

func (k DebtKind) Valid() bool {
	return k == DebtKindCustomer || k == DebtKindSupplier
}

// Counterparty is the customer or supplier a debt is held against
type Counterparty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DebtRecord represents one outstanding balance
type DebtRecord struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Code             string     `json:"code" db:"code"`
	Kind             DebtKind   `json:"type" db:"kind"`
	CounterpartyID   string     `json:"counterparty_id" db:"counterparty_id"`
	CounterpartyName string     `json:"counterparty_name" db:"counterparty_name"`
	TotalAmount      Money      `json:"total_amount" db:"total_amount"`
	PaidAmount       Money      `json:"paid_amount" db:"paid_amount"`
	RemainingAmount  Money      `json:"remaining_amount" db:"remaining_amount"`
	DueDate          *time.Time `json:"due_date,omitempty" db:"due_date"`
	Status           DebtStatus `json:"status" db:"status"`
	Note             string     `json:"note" db:"note"`
	Version          int64      `json:"version" db:"version"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt        *time.Time `json:"-" db:"deleted_at"`
}

// NewDebtParams carries the inputs for creating a debt
type NewDebtParams struct {
	Code         string
	Kind         DebtKind
	Counterparty Counterparty
	TotalAmount  Money
	DueDate      *time.Time
	Note         string
}

// NewDebtRecord creates a debt with nothing paid yet. A due date already in the
// past yields an overdue record straight away.
func NewDebtRecord(p NewDebtParams, now time.Time) (DebtRecord, error) {
	if !p.TotalAmount.IsPositive() {
		return DebtRecord{}, customError.WrapInvalidAmount(p.TotalAmount.Int64())
	}
	if !p.Kind.Valid() {
		return DebtRecord{}, customError.WrapInvalidDebtKind(string(p.Kind))
	}

	code := p.Code
	if code == "" {
		code = utils.GenerateCode(utils.PrefixDebt, now)
	}

	record := DebtRecord{
		ID:               uuid.New(),
		Code:             code,
		Kind:             p.Kind,
		CounterpartyID:   p.Counterparty.ID,
		CounterpartyName: p.Counterparty.Name,
		TotalAmount:      p.TotalAmount,
		PaidAmount:       0,
		RemainingAmount:  p.TotalAmount,
		DueDate:          p.DueDate,
		Note:             p.Note,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	record.Status = DeriveStatus(record.RemainingAmount, record.PaidAmount, record.DueDate, now)

	return record, nil
}

// Close marks a fully paid debt as completed
func (r DebtRecord) Close(now time.Time) (DebtRecord, error) {
	if !r.RemainingAmount.IsZero() {
		return r, customError.WrapOutstandingBalance(r.Code, r.RemainingAmount.Int64())
	}
	if r.Status.IsTerminal() {
		return r, nil
	}

	status, err := Transition(r.Status, DebtStatusCompleted)
	if err != nil {
		return r, err
	}
	r.Status = status
	r.UpdatedAt = now
	return r, nil
}

// CheckDeletable rejects deletion while a balance remains
func (r DebtRecord) CheckDeletable() error {
	if r.RemainingAmount.IsPositive() {
		return customError.WrapHasOutstandingBalance(r.Code, r.RemainingAmount.Int64())
	}
	return nil
}

// LiveStatus recomputes the status at now without touching the record
func (r DebtRecord) LiveStatus(now time.Time) DebtStatus {
	return DeriveStatus(r.RemainingAmount, r.PaidAmount, r.DueDate, now)
}

// WithLiveStatus returns a copy whose status reflects now. Used on reads so a
// debt that became overdue since its last write is reported as such.
func (r DebtRecord) WithLiveStatus(now time.Time) DebtRecord {
	r.Status = r.LiveStatus(now)
	return r
}

// CheckInvariants verifies remaining == total - paid and remaining >= 0
func (r DebtRecord) CheckInvariants() error {
	remaining, err := r.TotalAmount.Sub(r.PaidAmount)
	if err != nil {
		return err
	}
	if remaining != r.RemainingAmount {
		return customError.NewBusinessError(
			customError.ErrCodeInvalidAmount,
			"remaining amount does not equal total minus paid",
			customError.ErrInvalidAmount,
		)
	}
	return nil
}

// IsOpen reports whether the debt can still receive payments
func (r DebtRecord) IsOpen() bool {
	return !r.Status.IsTerminal() && r.RemainingAmount.IsPositive()
}
