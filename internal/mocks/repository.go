package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	"github.com/segyhp/receipt-debt-engine/internal/repository"
)

type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) Create(ctx context.Context, record *domain.DebtRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDebtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtRecord), args.Error(1)
}

func (m *MockDebtRepository) Update(ctx context.Context, record *domain.DebtRecord, expectedVersion int64) error {
	args := m.Called(ctx, record, expectedVersion)
	return args.Error(0)
}

func (m *MockDebtRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64, at time.Time) error {
	args := m.Called(ctx, id, expectedVersion, at)
	return args.Error(0)
}

func (m *MockDebtRepository) List(ctx context.Context, filter domain.DebtFilter, now time.Time) ([]domain.DebtRecord, int, error) {
	args := m.Called(ctx, filter, now)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DebtRecord), args.Int(1), args.Error(2)
}

func (m *MockDebtRepository) ListOpen(ctx context.Context) ([]domain.DebtRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DebtRecord), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByCode(ctx context.Context, code string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByDebtID(ctx context.Context, debtID uuid.UUID) ([]domain.PaymentTransaction, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentTransaction), args.Error(1)
}

type MockReceiptPaymentRepository struct {
	mock.Mock
}

func (m *MockReceiptPaymentRepository) Create(ctx context.Context, payment *domain.ReceiptPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockReceiptPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptPayment), args.Error(1)
}

func (m *MockReceiptPaymentRepository) Update(ctx context.Context, payment *domain.ReceiptPayment, fromStatus domain.ReceiptPaymentStatus) error {
	args := m.Called(ctx, payment, fromStatus)
	return args.Error(0)
}

func (m *MockReceiptPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReceiptPaymentRepository) List(ctx context.Context, filter domain.ReceiptPaymentFilter) ([]domain.ReceiptPayment, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReceiptPayment), args.Int(1), args.Error(2)
}

// MockUnitOfWork runs the callback against Repos unless an error is stubbed
type MockUnitOfWork struct {
	mock.Mock
	Repos repository.Repositories
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Repos)
}
