package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

const receiptPaymentColumns = `id, code, payment_date, expense_type, expense_type_name, payment_object, amount,
	payment_method, status, notes, supplier_id, debt_record_id, transaction_id, created_at, updated_at`

type receiptPaymentRepository struct {
	db sqlx.ExtContext
}

func NewReceiptPaymentRepository(db sqlx.ExtContext) ReceiptPaymentRepository {
	return &receiptPaymentRepository{db: db}
}

func (r *receiptPaymentRepository) Create(ctx context.Context, p *domain.ReceiptPayment) error {
	query := r.db.Rebind(`
		INSERT INTO receipt_payments (` + receiptPaymentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Code,
		p.PaymentDate,
		p.ExpenseType,
		p.ExpenseTypeName,
		p.PaymentObject,
		p.Amount,
		p.PaymentMethod,
		p.Status,
		p.Notes,
		p.SupplierID,
		p.DebtRecordID,
		p.TransactionID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return customError.WrapDuplicateCode("receipt payment", p.Code)
	}
	return mapError(err, "receipt payment", p.ID.String())
}

func (r *receiptPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error) {
	query := r.db.Rebind(`SELECT ` + receiptPaymentColumns + ` FROM receipt_payments WHERE id = ?`)

	var p domain.ReceiptPayment
	if err := sqlx.GetContext(ctx, r.db, &p, query, id); err != nil {
		return nil, mapError(err, "receipt payment", id.String())
	}
	return &p, nil
}

func (r *receiptPaymentRepository) Update(ctx context.Context, p *domain.ReceiptPayment, fromStatus domain.ReceiptPaymentStatus) error {
	query := r.db.Rebind(`
		UPDATE receipt_payments
		SET payment_date = ?, expense_type = ?, expense_type_name = ?, payment_object = ?, amount = ?,
			payment_method = ?, status = ?, notes = ?, supplier_id = ?, debt_record_id = ?,
			transaction_id = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`)

	res, err := r.db.ExecContext(ctx, query,
		p.PaymentDate,
		p.ExpenseType,
		p.ExpenseTypeName,
		p.PaymentObject,
		p.Amount,
		p.PaymentMethod,
		p.Status,
		p.Notes,
		p.SupplierID,
		p.DebtRecordID,
		p.TransactionID,
		p.UpdatedAt,
		p.ID,
		fromStatus,
	)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return expectOneRow(res, customError.WrapStaleReceiptPayment(p.Code))
}

func (r *receiptPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM receipt_payments WHERE id = ? AND status IN (?, ?)`)

	res, err := r.db.ExecContext(ctx, query, id, domain.ReceiptPaymentStatusDraft, domain.ReceiptPaymentStatusCancelled)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if err := expectOneRow(res, errNoRows); !errors.Is(err, errNoRows) {
		return err
	}

	// the row is gone or was committed after the caller read it
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return customError.WrapReceiptPaymentState(current.Code, string(current.Status), "deleted")
}

func (r *receiptPaymentRepository) List(ctx context.Context, filter domain.ReceiptPaymentFilter) ([]domain.ReceiptPayment, int, error) {
	filter = filter.Normalize()

	conditions := []string{"1 = 1"}
	var args []interface{}

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		conditions = append(conditions, "(LOWER(code) LIKE ? OR LOWER(payment_object) LIKE ? OR LOWER(notes) LIKE ?)")
		args = append(args, like, like, like)
	}
	if filter.ExpenseType != nil {
		conditions = append(conditions, "expense_type = ?")
		args = append(args, *filter.ExpenseType)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.SupplierID != "" {
		conditions = append(conditions, "supplier_id = ?")
		args = append(args, filter.SupplierID)
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "payment_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		cond, bound := endBound("payment_date", *filter.EndDate)
		conditions = append(conditions, cond)
		args = append(args, bound)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, r.db.Rebind(`SELECT COUNT(*) FROM receipt_payments`+where), args...); err != nil {
		return nil, 0, customError.WrapDatabaseError(err)
	}

	query := r.db.Rebind(`SELECT ` + receiptPaymentColumns + ` FROM receipt_payments` + where + ` ORDER BY payment_date DESC, code LIMIT ? OFFSET ?`)
	payments := make([]domain.ReceiptPayment, 0)
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, append(args, filter.Limit, filter.Offset())...); err != nil {
		return nil, 0, customError.WrapDatabaseError(err)
	}

	return payments, total, nil
}
