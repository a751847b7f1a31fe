package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

// TotalOutstanding sums remaining amounts, optionally restricted to one kind
func TotalOutstanding(records []DebtRecord, kind *DebtKind) Money {
	var total Money
	for _, r := range records {
		if kind != nil && r.Kind != *kind {
			continue
		}
		total = total.Add(r.RemainingAmount)
	}
	return total
}

// OverdueRecords returns the records that are overdue at now. It always
// recomputes the status instead of trusting the stored one.
func OverdueRecords(records []DebtRecord, now time.Time) []DebtRecord {
	overdue := make([]DebtRecord, 0)
	for _, r := range records {
		if r.LiveStatus(now) == DebtStatusOverdue {
			overdue = append(overdue, r.WithLiveStatus(now))
		}
	}
	return overdue
}

// PaymentProgressRatio returns paid/total in [0,1]. A zero total counts as fully paid.
func PaymentProgressRatio(r DebtRecord) decimal.Decimal {
	if r.TotalAmount.IsZero() {
		return decimal.NewFromInt(1)
	}
	ratio := decimal.NewFromInt(r.PaidAmount.Int64()).Div(decimal.NewFromInt(r.TotalAmount.Int64()))
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return ratio
}

// SumCompleted adds up the amounts of completed transactions
func SumCompleted(txs []PaymentTransaction) Money {
	var sum Money
	for _, tx := range txs {
		if tx.Status == TransactionStatusCompleted {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// VerifyLedger checks the record invariants and that the completed
// transactions applied to it add up to its paid amount.
func VerifyLedger(r DebtRecord, txs []PaymentTransaction) error {
	if err := r.CheckInvariants(); err != nil {
		return err
	}

	var applied []PaymentTransaction
	for _, tx := range txs {
		if tx.BelongsTo(r.ID) {
			applied = append(applied, tx)
		}
	}

	if sum := SumCompleted(applied); sum != r.PaidAmount {
		return customError.NewBusinessError(
			customError.ErrCodeInvalidAmount,
			fmt.Sprintf("completed transactions total %d but debt %s records %d paid", sum, r.Code, r.PaidAmount),
			customError.ErrInvalidAmount,
		)
	}
	return nil
}
