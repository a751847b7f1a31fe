package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
)

type MockDebtService struct {
	mock.Mock
}

func (m *MockDebtService) CreateDebt(ctx context.Context, request *domain.CreateDebtRequest) (*domain.DebtRecord, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtRecord), args.Error(1)
}

func (m *MockDebtService) GetDebt(ctx context.Context, id uuid.UUID) (*domain.DebtDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtDetail), args.Error(1)
}

func (m *MockDebtService) ListDebts(ctx context.Context, filter domain.DebtFilter) (*domain.DebtListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtListResponse), args.Error(1)
}

func (m *MockDebtService) Summary(ctx context.Context) (*domain.DebtSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtSummary), args.Error(1)
}

func (m *MockDebtService) Overdue(ctx context.Context) ([]domain.DebtRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DebtRecord), args.Error(1)
}

func (m *MockDebtService) CloseDebt(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtRecord), args.Error(1)
}

func (m *MockDebtService) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDebtService) ApplyPayment(ctx context.Context, id uuid.UUID, request *domain.ApplyPaymentRequest) (*domain.PaymentResult, error) {
	args := m.Called(ctx, id, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResult), args.Error(1)
}

func (m *MockDebtService) PaymentHistory(ctx context.Context, id uuid.UUID) (*domain.PaymentHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentHistory), args.Error(1)
}

func (m *MockDebtService) AuditDebt(ctx context.Context, id uuid.UUID) (*domain.LedgerAudit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAudit), args.Error(1)
}

type MockReceiptPaymentService struct {
	mock.Mock
}

func (m *MockReceiptPaymentService) Create(ctx context.Context, request *domain.CreateReceiptPaymentRequest) (*domain.CommitResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommitResult), args.Error(1)
}

func (m *MockReceiptPaymentService) Get(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptPayment), args.Error(1)
}

func (m *MockReceiptPaymentService) List(ctx context.Context, filter domain.ReceiptPaymentFilter) (*domain.ReceiptPaymentListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptPaymentListResponse), args.Error(1)
}

func (m *MockReceiptPaymentService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateReceiptPaymentRequest) (*domain.ReceiptPayment, error) {
	args := m.Called(ctx, id, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptPayment), args.Error(1)
}

func (m *MockReceiptPaymentService) Commit(ctx context.Context, id uuid.UUID) (*domain.CommitResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommitResult), args.Error(1)
}

func (m *MockReceiptPaymentService) Cancel(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptPayment), args.Error(1)
}

func (m *MockReceiptPaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
