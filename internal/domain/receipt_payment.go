package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/utils"
)

type ExpenseType string

const (
	ExpenseTypeSupplierPayment ExpenseType = "supplier_payment"
	ExpenseTypeTransportation  ExpenseType = "transportation"
	ExpenseTypeUtilities       ExpenseType = "utilities"
	ExpenseTypeRent            ExpenseType = "rent"
	ExpenseTypeLabor           ExpenseType = "labor"
	ExpenseTypeOther           ExpenseType = "other"
)

var defaultPaymentObjects = map[ExpenseType]string{
	ExpenseTypeSupplierPayment: "",
	ExpenseTypeTransportation:  "Transportation expense",
	ExpenseTypeUtilities:       "Utilities expense",
	ExpenseTypeRent:            "Premises rent",
	ExpenseTypeLabor:           "Labor expense",
	ExpenseTypeOther:           "",
}

func (t ExpenseType) Valid() bool {
	_, ok := defaultPaymentObjects[t]
	return ok
}

type ReceiptPaymentStatus string

const (
	ReceiptPaymentStatusDraft       ReceiptPaymentStatus = "draft"
	ReceiptPaymentStatusPaid        ReceiptPaymentStatus = "paid"
	ReceiptPaymentStatusDebtPayment ReceiptPaymentStatus = "debt_payment"
	ReceiptPaymentStatusCancelled   ReceiptPaymentStatus = "cancelled"
)

// ReceiptPayment is a standalone outflow. When it settles a supplier debt the
// commit goes through the reconciliation engine.
type ReceiptPayment struct {
	ID              uuid.UUID            `json:"id" db:"id"`
	Code            string               `json:"code" db:"code"`
	PaymentDate     time.Time            `json:"payment_date" db:"payment_date"`
	ExpenseType     ExpenseType          `json:"expense_type" db:"expense_type"`
	ExpenseTypeName string               `json:"expense_type_name,omitempty" db:"expense_type_name"`
	PaymentObject   string               `json:"payment_object,omitempty" db:"payment_object"`
	Amount          Money                `json:"amount" db:"amount"`
	PaymentMethod   PaymentMethod        `json:"payment_method" db:"payment_method"`
	Status          ReceiptPaymentStatus `json:"status" db:"status"`
	Notes           string               `json:"notes,omitempty" db:"notes"`
	SupplierID      string               `json:"supplier_id,omitempty" db:"supplier_id"`
	DebtRecordID    uuid.NullUUID        `json:"debt_record_id" db:"debt_record_id"`
	TransactionID   uuid.NullUUID        `json:"transaction_id" db:"transaction_id"`
	CreatedAt       time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" db:"updated_at"`
}

type NewReceiptPaymentParams struct {
	PaymentDate     time.Time
	ExpenseType     ExpenseType
	ExpenseTypeName string
	PaymentObject   string
	Amount          Money
	PaymentMethod   PaymentMethod
	Notes           string
	SupplierID      string
	DebtRecordID    uuid.NullUUID
}

// NewReceiptPayment validates the params and returns a draft receipt payment
func NewReceiptPayment(p NewReceiptPaymentParams, now time.Time) (ReceiptPayment, error) {
	if !p.Amount.IsPositive() {
		return ReceiptPayment{}, customError.WrapInvalidAmount(p.Amount.Int64())
	}
	if !p.ExpenseType.Valid() {
		return ReceiptPayment{}, customError.WrapInvalidReceiptPayment("unknown expense type " + string(p.ExpenseType))
	}
	if !p.PaymentMethod.Valid() {
		return ReceiptPayment{}, customError.WrapInvalidPaymentMethod(int(p.PaymentMethod))
	}

	name := strings.TrimSpace(p.ExpenseTypeName)
	if p.ExpenseType == ExpenseTypeOther && name == "" {
		return ReceiptPayment{}, customError.WrapInvalidReceiptPayment("expense type name is required for other expenses")
	}
	if p.ExpenseType != ExpenseTypeOther {
		name = ""
	}
	if p.DebtRecordID.Valid && p.ExpenseType != ExpenseTypeSupplierPayment {
		return ReceiptPayment{}, customError.WrapInvalidReceiptPayment("only supplier payments can settle a debt")
	}

	object := strings.TrimSpace(p.PaymentObject)
	if object == "" {
		object = defaultPaymentObjects[p.ExpenseType]
		if p.ExpenseType == ExpenseTypeOther {
			object = name
		}
	}

	paymentDate := p.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = now
	}

	return ReceiptPayment{
		ID:              uuid.New(),
		Code:            utils.GenerateCode(utils.PrefixReceiptPayment, now),
		PaymentDate:     paymentDate,
		ExpenseType:     p.ExpenseType,
		ExpenseTypeName: name,
		PaymentObject:   object,
		Amount:          p.Amount,
		PaymentMethod:   p.PaymentMethod,
		Status:          ReceiptPaymentStatusDraft,
		Notes:           p.Notes,
		SupplierID:      p.SupplierID,
		DebtRecordID:    p.DebtRecordID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Params returns the editable fields of the payment
func (p ReceiptPayment) Params() NewReceiptPaymentParams {
	return NewReceiptPaymentParams{
		PaymentDate:     p.PaymentDate,
		ExpenseType:     p.ExpenseType,
		ExpenseTypeName: p.ExpenseTypeName,
		PaymentObject:   p.PaymentObject,
		Amount:          p.Amount,
		PaymentMethod:   p.PaymentMethod,
		Notes:           p.Notes,
		SupplierID:      p.SupplierID,
		DebtRecordID:    p.DebtRecordID,
	}
}

// Update replaces the editable fields of a draft after running them through
// the same checks as a new payment. Identity and code never change.
func (p ReceiptPayment) Update(params NewReceiptPaymentParams, now time.Time) (ReceiptPayment, error) {
	if p.Status != ReceiptPaymentStatusDraft {
		return p, customError.WrapReceiptPaymentState(p.Code, string(p.Status), "updated")
	}
	if params.PaymentDate.IsZero() {
		params.PaymentDate = p.PaymentDate
	}

	edited, err := NewReceiptPayment(params, now)
	if err != nil {
		return p, err
	}
	edited.ID = p.ID
	edited.Code = p.Code
	edited.CreatedAt = p.CreatedAt
	return edited, nil
}

// SettlesDebt reports whether committing this payment reduces a supplier debt
func (p ReceiptPayment) SettlesDebt() bool {
	return p.ExpenseType == ExpenseTypeSupplierPayment && p.DebtRecordID.Valid
}

// TransactionCode is the code of the transaction created on commit. Deriving it
// from the receipt code makes a repeated commit resolve to the same transaction.
func (p ReceiptPayment) TransactionCode() string {
	return utils.PrefixTransaction + "-" + p.Code
}

// DebtIntent builds the payment intent applied to the linked debt
func (p ReceiptPayment) DebtIntent() PaymentIntent {
	return PaymentIntent{
		Amount:           p.Amount,
		Method:           p.PaymentMethod,
		Description:      p.describe(),
		Code:             p.TransactionCode(),
		ReceiptPaymentID: uuid.NullUUID{UUID: p.ID, Valid: true},
	}
}

// StandaloneTransaction records a committed payment that is not tied to any debt
func (p ReceiptPayment) StandaloneTransaction(now time.Time) PaymentTransaction {
	return PaymentTransaction{
		ID:               uuid.New(),
		Code:             p.TransactionCode(),
		ReceiptPaymentID: uuid.NullUUID{UUID: p.ID, Valid: true},
		Amount:           p.Amount,
		PaymentMethod:    p.PaymentMethod,
		Status:           TransactionStatusCompleted,
		Description:      p.describe(),
		ProcessedAt:      now,
		CreatedAt:        now,
	}
}

// MarkCommitted moves a draft to paid, or to debt_payment when it settled a debt
func (p ReceiptPayment) MarkCommitted(txID uuid.UUID, now time.Time) (ReceiptPayment, error) {
	if p.Status != ReceiptPaymentStatusDraft {
		return p, customError.WrapReceiptPaymentState(p.Code, string(p.Status), "committed")
	}
	p.Status = ReceiptPaymentStatusPaid
	if p.SettlesDebt() {
		p.Status = ReceiptPaymentStatusDebtPayment
	}
	p.TransactionID = uuid.NullUUID{UUID: txID, Valid: true}
	p.UpdatedAt = now
	return p, nil
}

// Cancel voids a draft. Once committed a completed transaction exists and
// corrections need a new transaction, so paid and debt payments stay as they are.
func (p ReceiptPayment) Cancel(now time.Time) (ReceiptPayment, error) {
	if p.Status != ReceiptPaymentStatusDraft {
		return p, customError.WrapReceiptPaymentState(p.Code, string(p.Status), "cancelled")
	}
	p.Status = ReceiptPaymentStatusCancelled
	p.UpdatedAt = now
	return p, nil
}

// CheckDeletable allows removing drafts and cancelled payments only
func (p ReceiptPayment) CheckDeletable() error {
	if p.Status == ReceiptPaymentStatusDraft || p.Status == ReceiptPaymentStatusCancelled {
		return nil
	}
	return customError.WrapReceiptPaymentState(p.Code, string(p.Status), "deleted")
}

func (p ReceiptPayment) describe() string {
	if p.PaymentObject != "" {
		return p.Code + " " + p.PaymentObject
	}
	return p.Code
}
