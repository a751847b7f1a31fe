package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

func TestApplyPayment_FullPaymentCompletes(t *testing.T) {
	now := date(2025, 9, 1)
	due := now.AddDate(0, 1, 0)
	record := newTestDebt(t, 20000, &due, now)
	require.Equal(t, DebtStatusPending, record.Status)

	paidAt := now.Add(2 * time.Hour)
	updated, tx, err := ApplyPayment(record, PaymentIntent{Amount: 20000, Method: PaymentMethodBankTransfer, Description: "settle"}, paidAt)
	require.NoError(t, err)

	assert.Equal(t, Money(0), updated.RemainingAmount)
	assert.Equal(t, Money(20000), updated.PaidAmount)
	assert.Equal(t, DebtStatusCompleted, updated.Status)
	assert.Equal(t, paidAt, updated.UpdatedAt)

	assert.Equal(t, Money(20000), tx.Amount)
	assert.Equal(t, TransactionStatusCompleted, tx.Status)
	assert.Equal(t, PaymentMethodBankTransfer, tx.PaymentMethod)
	assert.Equal(t, paidAt, tx.ProcessedAt)
	assert.True(t, tx.BelongsTo(record.ID))
	assert.NotEmpty(t, tx.Code)
	assert.NoError(t, VerifyLedger(updated, []PaymentTransaction{tx}))
}

func TestApplyPayment_PartialBeforeDueDate(t *testing.T) {
	due := date(2025, 9, 15)
	record := newTestDebt(t, 15000000, &due, date(2025, 9, 1))

	updated, _, err := ApplyPayment(record, PaymentIntent{Amount: 5000000, Method: PaymentMethodCash}, date(2025, 9, 12))
	require.NoError(t, err)

	assert.Equal(t, Money(5000000), updated.PaidAmount)
	assert.Equal(t, Money(10000000), updated.RemainingAmount)
	assert.Equal(t, DebtStatusPartialPaid, updated.Status)
}

func TestApplyPayment_OverdueDebtAcceptsPartialPayment(t *testing.T) {
	due := date(2025, 9, 8)
	record := newTestDebt(t, 10000000, &due, date(2025, 9, 1))
	record, _, err := ApplyPayment(record, PaymentIntent{Amount: 2000000, Method: PaymentMethodCash}, date(2025, 9, 5))
	require.NoError(t, err)

	now := date(2025, 9, 20)
	assert.Equal(t, DebtStatusOverdue, DeriveStatus(record.RemainingAmount, record.PaidAmount, record.DueDate, now))

	record.Status = DebtStatusOverdue
	partial, _, err := ApplyPayment(record, PaymentIntent{Amount: 1000000, Method: PaymentMethodCash}, now)
	require.NoError(t, err)
	assert.Equal(t, DebtStatusOverdue, partial.Status)

	settled, _, err := ApplyPayment(partial, PaymentIntent{Amount: 7000000, Method: PaymentMethodCash}, now)
	require.NoError(t, err)
	assert.Equal(t, DebtStatusCompleted, settled.Status)
}

func TestApplyPayment_Rejections(t *testing.T) {
	now := date(2025, 9, 1)

	completed := newTestDebt(t, 500, nil, now)
	completed, _, err := ApplyPayment(completed, PaymentIntent{Amount: 500, Method: PaymentMethodCash}, now)
	require.NoError(t, err)

	tests := []struct {
		name        string
		record      DebtRecord
		intent      PaymentIntent
		expectedErr error
	}{
		{name: "zero amount", record: newTestDebt(t, 1000, nil, now), intent: PaymentIntent{Amount: 0, Method: PaymentMethodCash}, expectedErr: customError.ErrInvalidAmount},
		{name: "negative amount", record: newTestDebt(t, 1000, nil, now), intent: PaymentIntent{Amount: -100, Method: PaymentMethodCash}, expectedErr: customError.ErrInvalidAmount},
		{name: "already completed", record: completed, intent: PaymentIntent{Amount: 1, Method: PaymentMethodCash}, expectedErr: customError.ErrDebtAlreadySettled},
		{name: "invalid amount checked before settled", record: completed, intent: PaymentIntent{Amount: 0, Method: PaymentMethodCash}, expectedErr: customError.ErrInvalidAmount},
		{name: "one more than remaining", record: newTestDebt(t, 1000, nil, now), intent: PaymentIntent{Amount: 1001, Method: PaymentMethodCash}, expectedErr: customError.ErrOverpaymentNotAllowed},
		{name: "unknown method", record: newTestDebt(t, 1000, nil, now), intent: PaymentIntent{Amount: 10, Method: PaymentMethod(9)}, expectedErr: customError.ErrInvalidPaymentMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.record
			updated, tx, err := ApplyPayment(tt.record, tt.intent, now.Add(time.Hour))

			assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
			assert.Equal(t, before, updated)
			assert.Equal(t, before, tt.record)
			assert.Equal(t, PaymentTransaction{}, tx)
		})
	}
}

func TestApplyPayment_OverpaymentAlwaysRejected(t *testing.T) {
	now := date(2025, 9, 1)
	record := newTestDebt(t, 9000, nil, now)

	for _, step := range []Money{1000, 2500, 3000} {
		_, _, err := ApplyPayment(record, PaymentIntent{Amount: record.RemainingAmount + 1, Method: PaymentMethodCash}, now)
		assert.True(t, errors.Is(err, customError.ErrOverpaymentNotAllowed))

		record, _, err = ApplyPayment(record, PaymentIntent{Amount: step, Method: PaymentMethodCash}, now)
		require.NoError(t, err)
	}
}

func TestApplyPayment_InvariantsAcrossSequence(t *testing.T) {
	now := date(2025, 9, 1)
	due := date(2025, 9, 10)
	record := newTestDebt(t, 100000, &due, now)

	amounts := []Money{1, 999, 25000, 0, 30000, -7, 40000, 50000, 3000, 1000}
	var txs []PaymentTransaction
	previousPaid := record.PaidAmount

	for i, amount := range amounts {
		at := now.AddDate(0, 0, i*2)
		updated, tx, err := ApplyPayment(record, PaymentIntent{Amount: amount, Method: PaymentMethodCash}, at)
		if err == nil {
			record = updated
			txs = append(txs, tx)
		}

		assert.NoError(t, record.CheckInvariants())
		assert.GreaterOrEqual(t, record.PaidAmount, previousPaid)
		assert.GreaterOrEqual(t, int64(record.RemainingAmount), int64(0))
		previousPaid = record.PaidAmount
	}

	assert.Equal(t, Money(100000), record.PaidAmount)
	assert.Equal(t, DebtStatusCompleted, record.Status)
	assert.Equal(t, record.PaidAmount, SumCompleted(txs))
	assert.NoError(t, VerifyLedger(record, txs))
}

func TestApplyPayment_UsesIntentCodeAndReceiptLink(t *testing.T) {
	now := date(2025, 9, 1)
	record := newTestDebt(t, 1000, nil, now)
	receiptID := uuid.New()

	_, tx, err := ApplyPayment(record, PaymentIntent{
		Amount:           400,
		Method:           PaymentMethodCheck,
		Code:             "TR-CUSTOM-1",
		ReceiptPaymentID: uuid.NullUUID{UUID: receiptID, Valid: true},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "TR-CUSTOM-1", tx.Code)
	assert.Equal(t, receiptID, tx.ReceiptPaymentID.UUID)
	assert.True(t, tx.ReceiptPaymentID.Valid)
}
