package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

const transactionColumns = `id, code, debt_record_id, receipt_payment_id, amount, payment_method, status,
	description, processed_at, created_at`

type transactionRepository struct {
	db sqlx.ExtContext
}

func NewTransactionRepository(db sqlx.ExtContext) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	query := r.db.Rebind(`
		INSERT INTO payment_transactions (id, code, debt_record_id, receipt_payment_id, amount, payment_method,
			status, description, processed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.Code,
		tx.DebtRecordID,
		tx.ReceiptPaymentID,
		tx.Amount,
		tx.PaymentMethod,
		tx.Status,
		tx.Description,
		tx.ProcessedAt,
		tx.CreatedAt,
	)
	if isUniqueViolation(err) {
		return customError.WrapIdempotencyConflict(tx.Code)
	}
	return mapError(err, "transaction", tx.ID.String())
}

func (r *transactionRepository) GetByCode(ctx context.Context, code string) (*domain.PaymentTransaction, error) {
	query := r.db.Rebind(`SELECT ` + transactionColumns + ` FROM payment_transactions WHERE code = ?`)

	var tx domain.PaymentTransaction
	if err := sqlx.GetContext(ctx, r.db, &tx, query, code); err != nil {
		return nil, mapError(err, "transaction", code)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByDebtID(ctx context.Context, debtID uuid.UUID) ([]domain.PaymentTransaction, error) {
	query := r.db.Rebind(`
		SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE debt_record_id = ?
		ORDER BY processed_at, created_at, code
	`)

	txs := make([]domain.PaymentTransaction, 0)
	if err := sqlx.SelectContext(ctx, r.db, &txs, query, debtID); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return txs, nil
}
