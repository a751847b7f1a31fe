package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/segyhp/receipt-debt-engine/internal/domain"
	"github.com/segyhp/receipt-debt-engine/internal/repository"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

// ReceiptPaymentService manages outgoing receipt payments. Payments linked to
// a supplier debt are committed through DebtService so the debt balance only
// ever changes through the reconciliation path.
type ReceiptPaymentService struct {
	Repos  repository.Repositories
	uow    repository.UnitOfWork
	debts  *DebtService
	clock  domain.Clock
	logger *slog.Logger
}

func NewReceiptPaymentService(
	repos repository.Repositories,
	uow repository.UnitOfWork,
	debts *DebtService,
	clock domain.Clock,
	logger *slog.Logger,
) *ReceiptPaymentService {
	return &ReceiptPaymentService{
		Repos:  repos,
		uow:    uow,
		debts:  debts,
		clock:  clock,
		logger: logger,
	}
}

// Create stores a draft, or commits straight away when the request asks for status paid
func (s *ReceiptPaymentService) Create(ctx context.Context, request *domain.CreateReceiptPaymentRequest) (*domain.CommitResult, error) {
	params := domain.NewReceiptPaymentParams{
		ExpenseType:     domain.ExpenseType(request.ExpenseType),
		ExpenseTypeName: request.ExpenseTypeName,
		PaymentObject:   request.PaymentObject,
		Amount:          domain.Money(request.Amount),
		PaymentMethod:   domain.PaymentMethod(request.PaymentMethod),
		Notes:           request.Notes,
		SupplierID:      request.SupplierID,
	}
	if request.PaymentDate != nil {
		params.PaymentDate = *request.PaymentDate
	}
	if request.DebtRecordID != nil {
		params.DebtRecordID = uuid.NullUUID{UUID: *request.DebtRecordID, Valid: true}
	}

	payment, err := domain.NewReceiptPayment(params, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if payment.SettlesDebt() {
		if err := s.checkDebtLink(ctx, payment.DebtRecordID.UUID); err != nil {
			return nil, err
		}
	}

	if domain.ReceiptPaymentStatus(request.Status) == domain.ReceiptPaymentStatusPaid {
		return s.commit(ctx, payment, true)
	}

	if err := s.Repos.ReceiptPayments.Create(ctx, &payment); err != nil {
		return nil, err
	}

	s.logger.Info("receipt payment drafted", "receipt_payment_id", payment.ID, "code", payment.Code, "amount", payment.Amount)
	return &domain.CommitResult{ReceiptPayment: payment}, nil
}

func (s *ReceiptPaymentService) Get(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error) {
	return s.Repos.ReceiptPayments.GetByID(ctx, id)
}

func (s *ReceiptPaymentService) List(ctx context.Context, filter domain.ReceiptPaymentFilter) (*domain.ReceiptPaymentListResponse, error) {
	filter = filter.Normalize()

	payments, total, err := s.Repos.ReceiptPayments.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.ReceiptPaymentListResponse{
		Data:       payments,
		Pagination: domain.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// Update edits a draft. Fields missing from the request keep their value and
// the result is validated like a new payment.
func (s *ReceiptPaymentService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateReceiptPaymentRequest) (*domain.ReceiptPayment, error) {
	payment, err := s.Repos.ReceiptPayments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := payment.Update(mergeUpdate(payment.Params(), request), s.clock.Now())
	if err != nil {
		return nil, err
	}
	if updated.SettlesDebt() {
		if err := s.checkDebtLink(ctx, updated.DebtRecordID.UUID); err != nil {
			return nil, err
		}
	}

	if err := s.Repos.ReceiptPayments.Update(ctx, &updated, domain.ReceiptPaymentStatusDraft); err != nil {
		return nil, err
	}

	s.logger.Info("receipt payment updated", "receipt_payment_id", updated.ID, "code", updated.Code, "amount", updated.Amount)
	return &updated, nil
}

// Commit records the transaction for a draft. A debt linked draft reduces the
// debt through the reconciliation engine in the same database transaction.
// Committing an already committed payment returns the stored result.
func (s *ReceiptPaymentService) Commit(ctx context.Context, id uuid.UUID) (*domain.CommitResult, error) {
	payment, err := s.Repos.ReceiptPayments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.ReceiptPaymentStatusDraft {
		return s.committedResult(ctx, *payment)
	}

	result, err := s.commit(ctx, *payment, false)
	if err != nil && lostCommitRace(err) {
		// a concurrent commit of the same draft won
		current, getErr := s.Repos.ReceiptPayments.GetByID(ctx, id)
		if getErr != nil {
			return nil, err
		}
		if replayed, replayErr := s.committedResult(ctx, *current); replayErr == nil {
			return replayed, nil
		}
	}
	return result, err
}

// committedResult rebuilds the commit result of a paid or debt payment from
// the transaction stored under its derived code
func (s *ReceiptPaymentService) committedResult(ctx context.Context, payment domain.ReceiptPayment) (*domain.CommitResult, error) {
	stateErr := customError.WrapReceiptPaymentState(payment.Code, string(payment.Status), "committed")
	if payment.Status != domain.ReceiptPaymentStatusPaid && payment.Status != domain.ReceiptPaymentStatusDebtPayment {
		return nil, stateErr
	}

	tx, err := s.Repos.Transactions.GetByCode(ctx, payment.TransactionCode())
	if customError.CodeOf(err) == customError.ErrCodeNotFound {
		return nil, stateErr
	}
	if err != nil {
		return nil, err
	}

	result := &domain.CommitResult{ReceiptPayment: payment, Transaction: tx}
	if payment.SettlesDebt() {
		debt, err := s.Repos.Debts.GetByID(ctx, payment.DebtRecordID.UUID)
		if err != nil {
			return nil, err
		}
		live := debt.WithLiveStatus(s.clock.Now())
		result.Debt = &live
	}

	s.logger.Info("receipt payment commit replayed", "receipt_payment_id", payment.ID, "transaction", tx.Code)
	return result, nil
}

func lostCommitRace(err error) bool {
	switch customError.CodeOf(err) {
	case customError.ErrCodeIdempotencyConflict, customError.ErrCodeDuplicateCode, customError.ErrCodeStaleRecordVersion:
		return true
	}
	return false
}

func (s *ReceiptPaymentService) commit(ctx context.Context, payment domain.ReceiptPayment, fresh bool) (*domain.CommitResult, error) {
	persist := func(repos repository.Repositories, committed *domain.ReceiptPayment) error {
		if fresh {
			return repos.ReceiptPayments.Create(ctx, committed)
		}
		return repos.ReceiptPayments.Update(ctx, committed, domain.ReceiptPaymentStatusDraft)
	}

	var committed domain.ReceiptPayment

	if payment.SettlesDebt() {
		result, err := s.debts.applyPayment(ctx, payment.DebtRecordID.UUID, payment.DebtIntent(), nil,
			func(repos repository.Repositories, debt domain.DebtRecord, tx domain.PaymentTransaction) error {
				if debt.Kind != domain.DebtKindSupplier {
					return customError.WrapInvalidReceiptPayment("receipt payments can only settle supplier debts")
				}
				var err error
				committed, err = payment.MarkCommitted(tx.ID, tx.ProcessedAt)
				if err != nil {
					return err
				}
				return persist(repos, &committed)
			})
		if err != nil {
			return nil, err
		}

		if result.Replayed {
			current, err := s.Repos.ReceiptPayments.GetByID(ctx, payment.ID)
			if err != nil {
				return nil, err
			}
			committed = *current
		}

		s.logger.Info("receipt payment settled debt",
			"receipt_payment_id", committed.ID,
			"debt_id", result.Debt.ID,
			"amount", committed.Amount,
			"debt_status", result.Debt.Status,
		)
		return &domain.CommitResult{ReceiptPayment: committed, Transaction: &result.Transaction, Debt: &result.Debt}, nil
	}

	now := s.clock.Now()
	tx := payment.StandaloneTransaction(now)
	committed, err := payment.MarkCommitted(tx.ID, now)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Transactions.Create(ctx, &tx); err != nil {
			return err
		}
		return persist(repos, &committed)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receipt payment committed", "receipt_payment_id", committed.ID, "transaction", tx.Code, "amount", tx.Amount)
	return &domain.CommitResult{ReceiptPayment: committed, Transaction: &tx}, nil
}

// Cancel voids a draft
func (s *ReceiptPaymentService) Cancel(ctx context.Context, id uuid.UUID) (*domain.ReceiptPayment, error) {
	payment, err := s.Repos.ReceiptPayments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cancelled, err := payment.Cancel(s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Repos.ReceiptPayments.Update(ctx, &cancelled, payment.Status); err != nil {
		return nil, err
	}

	s.logger.Info("receipt payment cancelled", "receipt_payment_id", id, "code", cancelled.Code)
	return &cancelled, nil
}

// Delete removes a draft or cancelled payment
func (s *ReceiptPaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	payment, err := s.Repos.ReceiptPayments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := payment.CheckDeletable(); err != nil {
		return err
	}
	return s.Repos.ReceiptPayments.Delete(ctx, id)
}

func mergeUpdate(params domain.NewReceiptPaymentParams, request *domain.UpdateReceiptPaymentRequest) domain.NewReceiptPaymentParams {
	if request.PaymentDate != nil {
		params.PaymentDate = *request.PaymentDate
	}
	if request.ExpenseType != nil && domain.ExpenseType(*request.ExpenseType) != params.ExpenseType {
		params.ExpenseType = domain.ExpenseType(*request.ExpenseType)
		// the old default object belongs to the old expense type
		params.PaymentObject = ""
	}
	if request.ExpenseTypeName != nil {
		params.ExpenseTypeName = *request.ExpenseTypeName
	}
	if request.PaymentObject != nil {
		params.PaymentObject = *request.PaymentObject
	}
	if request.Amount != nil {
		params.Amount = domain.Money(*request.Amount)
	}
	if request.PaymentMethod != nil {
		params.PaymentMethod = domain.PaymentMethod(*request.PaymentMethod)
	}
	if request.Notes != nil {
		params.Notes = *request.Notes
	}
	if request.SupplierID != nil {
		params.SupplierID = *request.SupplierID
	}
	if request.DebtRecordID != nil {
		params.DebtRecordID = uuid.NullUUID{UUID: *request.DebtRecordID, Valid: true}
	}
	return params
}

func (s *ReceiptPaymentService) checkDebtLink(ctx context.Context, debtID uuid.UUID) error {
	debt, err := s.Repos.Debts.GetByID(ctx, debtID)
	if err != nil {
		return err
	}
	if debt.Kind != domain.DebtKindSupplier {
		return customError.WrapInvalidReceiptPayment("receipt payments can only settle supplier debts")
	}
	if debt.Status.IsTerminal() {
		return customError.WrapDebtAlreadySettled(debt.Code)
	}
	return nil
}
