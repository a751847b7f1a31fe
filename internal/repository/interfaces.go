package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
)

// DebtRepository defines the interface for debt record data operations
type DebtRepository interface {
	// Create inserts a new debt record
	Create(ctx context.Context, record *domain.DebtRecord) error

	// GetByID retrieves a debt that has not been deleted
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error)

	// Update writes balances, status and note if the stored version still
	// equals expectedVersion. On success record.Version is bumped.
	Update(ctx context.Context, record *domain.DebtRecord, expectedVersion int64) error

	// Delete soft deletes a debt, version checked
	Delete(ctx context.Context, id uuid.UUID, expectedVersion int64, at time.Time) error

	// List returns one page of debts and the total match count.
	// The status filter is matched against the status derived at now.
	List(ctx context.Context, filter domain.DebtFilter, now time.Time) ([]domain.DebtRecord, int, error)

	// ListOpen returns every debt that still has a balance
	ListOpen(ctx context.Context) ([]domain.DebtRecord, error)
}

// TransactionRepository is append only. There is no update path.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) error
	GetByCode(ctx context.Context, code string) (*domain.PaymentTransaction, error)
	ListByDebtID(ctx context.Context, debtID uuid.UUID) ([]domain.PaymentTransaction, error)
}

// ReceiptPaymentRepository defines the interface for receipt payment data operations
type ReceiptPaymentRepository interface {
	Create(ctx context.Context, payment *domain.ReceiptPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error)

	// Update writes the payment if its stored status is still fromStatus
	Update(ctx context.Context, payment *domain.ReceiptPayment, fromStatus domain.ReceiptPaymentStatus) error

	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.ReceiptPaymentFilter) ([]domain.ReceiptPayment, int, error)
}

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Debts           DebtRepository
	Transactions    TransactionRepository
	ReceiptPayments ReceiptPaymentRepository
}

// UnitOfWork runs fn inside a single database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
