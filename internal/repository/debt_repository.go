package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

const debtColumns = `id, code, kind, counterparty_id, counterparty_name, total_amount, paid_amount,
	remaining_amount, due_date, status, note, version, created_at, updated_at, deleted_at`

// liveStatusExpr mirrors domain.DeriveStatus in SQL. Its single placeholder is now.
const liveStatusExpr = `CASE
		WHEN remaining_amount = 0 THEN 'completed'
		WHEN due_date IS NOT NULL AND due_date < ? THEN 'overdue'
		WHEN paid_amount > 0 THEN 'partial_paid'
		ELSE 'pending'
	END`

type debtRepository struct {
	db sqlx.ExtContext
}

func NewDebtRepository(db sqlx.ExtContext) DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Create(ctx context.Context, record *domain.DebtRecord) error {
	query := r.db.Rebind(`
		INSERT INTO debt_records (id, code, kind, counterparty_id, counterparty_name, total_amount, paid_amount,
			remaining_amount, due_date, status, note, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Code,
		record.Kind,
		record.CounterpartyID,
		record.CounterpartyName,
		record.TotalAmount,
		record.PaidAmount,
		record.RemainingAmount,
		record.DueDate,
		record.Status,
		record.Note,
		record.Version,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return customError.WrapDuplicateCode("debt", record.Code)
	}
	return mapError(err, "debt", record.ID.String())
}

func (r *debtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error) {
	query := r.db.Rebind(`SELECT ` + debtColumns + ` FROM debt_records WHERE id = ? AND deleted_at IS NULL`)

	var record domain.DebtRecord
	if err := sqlx.GetContext(ctx, r.db, &record, query, id); err != nil {
		return nil, mapError(err, "debt", id.String())
	}
	return &record, nil
}

func (r *debtRepository) Update(ctx context.Context, record *domain.DebtRecord, expectedVersion int64) error {
	query := r.db.Rebind(`
		UPDATE debt_records
		SET paid_amount = ?, remaining_amount = ?, status = ?, note = ?, due_date = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ? AND deleted_at IS NULL
	`)

	res, err := r.db.ExecContext(ctx, query,
		record.PaidAmount,
		record.RemainingAmount,
		record.Status,
		record.Note,
		record.DueDate,
		record.UpdatedAt,
		record.ID,
		expectedVersion,
	)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if err := expectOneRow(res, customError.WrapStaleRecordVersion(record.ID.String(), expectedVersion)); err != nil {
		return err
	}

	record.Version = expectedVersion + 1
	return nil
}

func (r *debtRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64, at time.Time) error {
	query := r.db.Rebind(`
		UPDATE debt_records
		SET deleted_at = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ? AND deleted_at IS NULL
	`)

	res, err := r.db.ExecContext(ctx, query, at, at, id, expectedVersion)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return expectOneRow(res, customError.WrapStaleRecordVersion(id.String(), expectedVersion))
}

func (r *debtRepository) List(ctx context.Context, filter domain.DebtFilter, now time.Time) ([]domain.DebtRecord, int, error) {
	filter = filter.Normalize()

	conditions := []string{"deleted_at IS NULL"}
	var args []interface{}

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		conditions = append(conditions, "(LOWER(code) LIKE ? OR LOWER(counterparty_name) LIKE ? OR LOWER(note) LIKE ?)")
		args = append(args, like, like, like)
	}
	if filter.Status != nil {
		conditions = append(conditions, liveStatusExpr+" = ?")
		args = append(args, now, *filter.Status)
	}
	if filter.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, *filter.Kind)
	}
	if filter.CustomerID != "" {
		conditions = append(conditions, "kind = ? AND counterparty_id = ?")
		args = append(args, domain.DebtKindCustomer, filter.CustomerID)
	}
	if filter.SupplierID != "" {
		conditions = append(conditions, "kind = ? AND counterparty_id = ?")
		args = append(args, domain.DebtKindSupplier, filter.SupplierID)
	}
	if filter.StartDueDate != nil {
		conditions = append(conditions, "due_date >= ?")
		args = append(args, *filter.StartDueDate)
	}
	if filter.EndDueDate != nil {
		cond, bound := endBound("due_date", *filter.EndDueDate)
		conditions = append(conditions, cond)
		args = append(args, bound)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, r.db.Rebind(`SELECT COUNT(*) FROM debt_records`+where), args...); err != nil {
		return nil, 0, customError.WrapDatabaseError(err)
	}

	query := r.db.Rebind(`SELECT ` + debtColumns + ` FROM debt_records` + where + ` ORDER BY created_at DESC, code LIMIT ? OFFSET ?`)
	records := make([]domain.DebtRecord, 0)
	if err := sqlx.SelectContext(ctx, r.db, &records, query, append(args, filter.Limit, filter.Offset())...); err != nil {
		return nil, 0, customError.WrapDatabaseError(err)
	}

	return records, total, nil
}

func (r *debtRepository) ListOpen(ctx context.Context) ([]domain.DebtRecord, error) {
	query := `SELECT ` + debtColumns + ` FROM debt_records WHERE deleted_at IS NULL AND remaining_amount > 0 ORDER BY due_date, code`

	records := make([]domain.DebtRecord, 0)
	if err := sqlx.SelectContext(ctx, r.db, &records, query); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return records, nil
}
