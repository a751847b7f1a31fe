package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod matches the numeric codes the dashboard sends
type PaymentMethod int

const (
	PaymentMethodCash         PaymentMethod = 1
	PaymentMethodBankTransfer PaymentMethod = 2
	PaymentMethodCreditCard   PaymentMethod = 3
	PaymentMethodCheck        PaymentMethod = 4
	PaymentMethodEWallet      PaymentMethod = 5
)

func (m PaymentMethod) Valid() bool {
	return m >= PaymentMethodCash && m <= PaymentMethodEWallet
}

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodCash:
		return "cash"
	case PaymentMethodBankTransfer:
		return "bank_transfer"
	case PaymentMethodCreditCard:
		return "credit_card"
	case PaymentMethodCheck:
		return "check"
	case PaymentMethodEWallet:
		return "e_wallet"
	default:
		return "unknown"
	}
}

// TransactionStatus is a transaction's own processing state, independent of the debt status
type TransactionStatus int

const (
	TransactionStatusPending   TransactionStatus = 1
	TransactionStatusCompleted TransactionStatus = 2
	TransactionStatusFailed    TransactionStatus = 3
	TransactionStatusCancelled TransactionStatus = 4
)

// PaymentTransaction is an immutable record of one payment event
type PaymentTransaction struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	Code             string            `json:"code" db:"code"`
	DebtRecordID     uuid.NullUUID     `json:"debt_record_id" db:"debt_record_id"`
	ReceiptPaymentID uuid.NullUUID     `json:"receipt_payment_id" db:"receipt_payment_id"`
	Amount           Money             `json:"amount" db:"amount"`
	PaymentMethod    PaymentMethod     `json:"payment_method" db:"payment_method"`
	Status           TransactionStatus `json:"status" db:"status"`
	Description      string            `json:"description" db:"description"`
	ProcessedAt      time.Time         `json:"processed_at" db:"processed_at"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
}

// BelongsTo reports whether the transaction was applied to the given debt
func (t PaymentTransaction) BelongsTo(debtID uuid.UUID) bool {
	return t.DebtRecordID.Valid && t.DebtRecordID.UUID == debtID
}
