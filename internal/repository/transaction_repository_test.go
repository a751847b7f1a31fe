package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	"github.com/segyhp/receipt-debt-engine/internal/testutil"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

func TestTransactionRepository_CreateAndList(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()
	now := day(2025, 9, 1)

	record := seedDebt(t, repos.Debts, domain.NewDebtParams{Kind: domain.DebtKindCustomer, Counterparty: domain.Counterparty{ID: "C1", Name: "A"}, TotalAmount: 1000}, now)

	_, first, err := domain.ApplyPayment(record, domain.PaymentIntent{Amount: 300, Method: domain.PaymentMethodCash, Code: "TR-1"}, now.Add(time.Hour))
	require.NoError(t, err)
	_, second, err := domain.ApplyPayment(record, domain.PaymentIntent{Amount: 200, Method: domain.PaymentMethodEWallet, Code: "TR-2"}, now.Add(2*time.Hour))
	require.NoError(t, err)

	require.NoError(t, repos.Transactions.Create(ctx, &second))
	require.NoError(t, repos.Transactions.Create(ctx, &first))

	txs, err := repos.Transactions.ListByDebtID(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "TR-1", txs[0].Code)
	assert.Equal(t, "TR-2", txs[1].Code)
	assert.Equal(t, domain.PaymentMethodEWallet, txs[1].PaymentMethod)
	assert.Equal(t, domain.TransactionStatusCompleted, txs[1].Status)
	assert.True(t, txs[0].BelongsTo(record.ID))
	assert.False(t, txs[0].ReceiptPaymentID.Valid)

	got, err := repos.Transactions.GetByCode(ctx, "TR-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, domain.Money(200), got.Amount)

	_, err = repos.Transactions.GetByCode(ctx, "TR-404")
	assert.True(t, errors.Is(err, customError.ErrNotFound))

	empty, err := repos.Transactions.ListByDebtID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransactionRepository_DuplicateCodeIsIdempotencyConflict(t *testing.T) {
	repo := NewTransactionRepository(testutil.NewSQLiteDB(t))
	ctx := context.Background()
	now := day(2025, 9, 1)

	tx := domain.PaymentTransaction{
		ID:            uuid.New(),
		Code:          "TR-SAME",
		Amount:        10,
		PaymentMethod: domain.PaymentMethodCash,
		Status:        domain.TransactionStatusCompleted,
		ProcessedAt:   now,
		CreatedAt:     now,
	}
	require.NoError(t, repo.Create(ctx, &tx))

	again := tx
	again.ID = uuid.New()
	err := repo.Create(ctx, &again)
	assert.True(t, errors.Is(err, customError.ErrIdempotencyConflict))
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	uow := NewUnitOfWork(db)
	repos := NewRepositories(db)
	ctx := context.Background()
	now := day(2025, 9, 1)

	record := seedDebt(t, repos.Debts, domain.NewDebtParams{Kind: domain.DebtKindCustomer, Counterparty: domain.Counterparty{ID: "C1", Name: "A"}, TotalAmount: 1000}, now)
	updated, tx, err := domain.ApplyPayment(record, domain.PaymentIntent{Amount: 1000, Method: domain.PaymentMethodCash}, now)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = uow.Do(ctx, func(r Repositories) error {
		if err := r.Debts.Update(ctx, &updated, record.Version); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, &tx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repos.Debts.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(0), got.PaidAmount)
	assert.Equal(t, int64(1), got.Version)

	txs, err := repos.Transactions.ListByDebtID(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)

	updated.Version = record.Version
	err = uow.Do(ctx, func(r Repositories) error {
		if err := r.Debts.Update(ctx, &updated, record.Version); err != nil {
			return err
		}
		return r.Transactions.Create(ctx, &tx)
	})
	require.NoError(t, err)

	got, err = repos.Debts.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DebtStatusCompleted, got.Status)
	assert.Equal(t, int64(2), got.Version)
}
