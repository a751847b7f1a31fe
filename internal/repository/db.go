package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/utils"
)

// NewRepositories binds all repositories to db
func NewRepositories(db *sqlx.DB) Repositories {
	return bind(db)
}

func bind(ext sqlx.ExtContext) Repositories {
	return Repositories{
		Debts:           NewDebtRepository(ext),
		Transactions:    NewTransactionRepository(ext),
		ReceiptPayments: NewReceiptPaymentRepository(ext),
	}
}

type sqlUnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(bind(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// mapError turns driver errors into business errors
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapNotFound(entity, id)
	}
	return customError.WrapDatabaseError(err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

var errNoRows = errors.New("no rows affected")

func expectOneRow(res sql.Result, onZero error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if n == 0 {
		return onZero
	}
	return nil
}

// endBound builds the upper bound condition for a date range filter. A bound
// at midnight is a calendar date and covers that whole day.
func endBound(column string, end time.Time) (string, time.Time) {
	day := utils.StartOfDay(end)
	if day.Equal(end) {
		return column + " < ?", day.AddDate(0, 0, 1)
	}
	return column + " <= ?", end
}
