package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// DTOs for requests and responses

type CreateDebtRequest struct {
	Code             string     `json:"code" validate:"omitempty,max=64"`
	Type             DebtKind   `json:"type" validate:"required"`
	CounterpartyID   string     `json:"counterparty_id" validate:"required,max=64"`
	CounterpartyName string     `json:"counterparty_name" validate:"required,max=180"`
	TotalAmount      int64      `json:"total_amount"`
	DueDate          *time.Time `json:"due_date"`
	Note             string     `json:"note" validate:"max=1000"`
}

type ApplyPaymentRequest struct {
	Amount          int64  `json:"amount"`
	PaymentMethod   int    `json:"payment_method"`
	Description     string `json:"description" validate:"max=500"`
	Code            string `json:"code" validate:"omitempty,max=64"`
	ExpectedVersion *int64 `json:"expected_version" validate:"omitempty,gte=1"`
}

type CreateReceiptPaymentRequest struct {
	PaymentDate     *time.Time `json:"payment_date"`
	ExpenseType     string     `json:"expense_type" validate:"required"`
	ExpenseTypeName string     `json:"expense_type_name" validate:"max=180"`
	PaymentObject   string     `json:"payment_object" validate:"max=180"`
	Amount          int64      `json:"amount"`
	PaymentMethod   int        `json:"payment_method"`
	Notes           string     `json:"notes" validate:"max=1000"`
	SupplierID      string     `json:"supplier_id" validate:"max=64"`
	DebtRecordID    *uuid.UUID `json:"debt_record_id"`
	Status          string     `json:"status" validate:"omitempty,oneof=draft paid"`
}

// UpdateReceiptPaymentRequest edits a draft. Omitted fields keep their
// current value.
type UpdateReceiptPaymentRequest struct {
	PaymentDate     *time.Time `json:"payment_date"`
	ExpenseType     *string    `json:"expense_type"`
	ExpenseTypeName *string    `json:"expense_type_name" validate:"omitempty,max=180"`
	PaymentObject   *string    `json:"payment_object" validate:"omitempty,max=180"`
	Amount          *int64     `json:"amount"`
	PaymentMethod   *int       `json:"payment_method"`
	Notes           *string    `json:"notes" validate:"omitempty,max=1000"`
	SupplierID      *string    `json:"supplier_id" validate:"omitempty,max=64"`
	DebtRecordID    *uuid.UUID `json:"debt_record_id"`
}

// Pagination mirrors the metadata block the dashboard tables read
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, TotalItems: total, TotalPages: pages}
}

// DebtFilter narrows debt listings. Status is matched against the live status.
// EndDueDate is inclusive and a value at midnight covers the whole day.
type DebtFilter struct {
	Keyword      string
	Status       *DebtStatus
	Kind         *DebtKind
	CustomerID   string
	SupplierID   string
	StartDueDate *time.Time
	EndDueDate   *time.Time
	Page         int
	Limit        int
}

// Normalize clamps paging to sane bounds
func (f DebtFilter) Normalize() DebtFilter {
	f.Page, f.Limit = normalizePaging(f.Page, f.Limit)
	return f
}

func (f DebtFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ReceiptPaymentFilter narrows receipt payment listings. EndDate is inclusive
// and a value at midnight covers the whole day.
type ReceiptPaymentFilter struct {
	Keyword     string
	ExpenseType *ExpenseType
	Status      *ReceiptPaymentStatus
	SupplierID  string
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	Limit       int
}

func (f ReceiptPaymentFilter) Normalize() ReceiptPaymentFilter {
	f.Page, f.Limit = normalizePaging(f.Page, f.Limit)
	return f
}

func (f ReceiptPaymentFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

type DebtListResponse struct {
	Data       []DebtRecord `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

type ReceiptPaymentListResponse struct {
	Data       []ReceiptPayment `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// DebtDetail is a debt with its live status and payment progress
type DebtDetail struct {
	DebtRecord
	ProgressRatio   decimal.Decimal `json:"progress_ratio"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
}

// PaymentResult is what a reconciliation returns to the caller
type PaymentResult struct {
	Debt        DebtRecord         `json:"debt"`
	Transaction PaymentTransaction `json:"transaction"`
	Replayed    bool               `json:"replayed"`
}

type PaymentHistory struct {
	Debt         DebtRecord           `json:"debt"`
	Transactions []PaymentTransaction `json:"transactions"`
	TotalPaid    Money                `json:"total_paid"`
}

type DebtSummary struct {
	TotalOutstanding    Money     `json:"total_outstanding"`
	CustomerOutstanding Money     `json:"customer_outstanding"`
	SupplierOutstanding Money     `json:"supplier_outstanding"`
	OpenCount           int       `json:"open_count"`
	OverdueCount        int       `json:"overdue_count"`
	OverdueAmount       Money     `json:"overdue_amount"`
	AsOf                time.Time `json:"as_of"`
}

type LedgerAudit struct {
	DebtID         uuid.UUID `json:"debt_id"`
	Code           string    `json:"code"`
	PaidAmount     Money     `json:"paid_amount"`
	CompletedTotal Money     `json:"completed_total"`
	Consistent     bool      `json:"consistent"`
	Problem        string    `json:"problem,omitempty"`
}

// CommitResult carries a receipt payment and, once committed, its transaction
// and the debt it settled
type CommitResult struct {
	ReceiptPayment ReceiptPayment      `json:"receipt_payment"`
	Transaction    *PaymentTransaction `json:"transaction,omitempty"`
	Debt           *DebtRecord         `json:"debt,omitempty"`
}
