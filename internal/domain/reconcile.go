package domain

import (
	"time"

	"github.com/google/uuid"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/utils"
)

// PaymentIntent is a request to apply money to a debt.
// Code, when set, becomes the transaction code and acts as the idempotency key.
type PaymentIntent struct {
	Amount           Money
	Method           PaymentMethod
	Description      string
	Code             string
	ReceiptPaymentID uuid.NullUUID
}

// ApplyPayment is the reconciliation step. It validates the intent against the
// record and returns the updated record together with the completed
// transaction. record is passed by value and is left untouched on failure.
func ApplyPayment(record DebtRecord, intent PaymentIntent, now time.Time) (DebtRecord, PaymentTransaction, error) {
	if !intent.Amount.IsPositive() {
		return record, PaymentTransaction{}, customError.WrapInvalidAmount(intent.Amount.Int64())
	}
	if record.Status.IsTerminal() {
		return record, PaymentTransaction{}, customError.WrapDebtAlreadySettled(record.Code)
	}
	if intent.Amount > record.RemainingAmount {
		return record, PaymentTransaction{}, customError.WrapOverpayment(intent.Amount.Int64(), record.RemainingAmount.Int64())
	}
	if !intent.Method.Valid() {
		return record, PaymentTransaction{}, customError.WrapInvalidPaymentMethod(int(intent.Method))
	}

	updated := record
	updated.PaidAmount = record.PaidAmount.Add(intent.Amount)

	remaining, err := updated.TotalAmount.Sub(updated.PaidAmount)
	if err != nil {
		return record, PaymentTransaction{}, err
	}
	updated.RemainingAmount = remaining

	status, err := Transition(record.Status, DeriveStatus(updated.RemainingAmount, updated.PaidAmount, updated.DueDate, now))
	if err != nil {
		return record, PaymentTransaction{}, err
	}
	updated.Status = status
	updated.UpdatedAt = now

	code := intent.Code
	if code == "" {
		code = utils.GenerateCode(utils.PrefixTransaction, now)
	}

	tx := PaymentTransaction{
		ID:               uuid.New(),
		Code:             code,
		DebtRecordID:     uuid.NullUUID{UUID: record.ID, Valid: true},
		ReceiptPaymentID: intent.ReceiptPaymentID,
		Amount:           intent.Amount,
		PaymentMethod:    intent.Method,
		Status:           TransactionStatusCompleted,
		Description:      intent.Description,
		ProcessedAt:      now,
		CreatedAt:        now,
	}

	return updated, tx, nil
}
