package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/receipt-debt-engine/internal/config"
	"github.com/segyhp/receipt-debt-engine/internal/domain"
	"github.com/segyhp/receipt-debt-engine/internal/lock"
	"github.com/segyhp/receipt-debt-engine/internal/repository"
	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
	"github.com/segyhp/receipt-debt-engine/pkg/utils"
)

// afterApply runs inside the unit of work that persisted a reconciliation
type afterApply func(repos repository.Repositories, debt domain.DebtRecord, tx domain.PaymentTransaction) error

type DebtService struct {
	Repos  repository.Repositories
	uow    repository.UnitOfWork
	locker lock.Locker
	clock  domain.Clock
	config *config.Config
	logger *slog.Logger
}

func NewDebtService(
	repos repository.Repositories,
	uow repository.UnitOfWork,
	locker lock.Locker,
	clock domain.Clock,
	config *config.Config,
	logger *slog.Logger,
) *DebtService {
	return &DebtService{
		Repos:  repos,
		uow:    uow,
		locker: locker,
		clock:  clock,
		config: config,
		logger: logger,
	}
}

// CreateDebt records a new debt with nothing paid
func (s *DebtService) CreateDebt(ctx context.Context, request *domain.CreateDebtRequest) (*domain.DebtRecord, error) {
	record, err := domain.NewDebtRecord(domain.NewDebtParams{
		Code: strings.TrimSpace(request.Code),
		Kind: request.Type,
		Counterparty: domain.Counterparty{
			ID:   request.CounterpartyID,
			Name: request.CounterpartyName,
		},
		TotalAmount: domain.Money(request.TotalAmount),
		DueDate:     request.DueDate,
		Note:        request.Note,
	}, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.Repos.Debts.Create(ctx, &record); err != nil {
		return nil, err
	}

	s.logger.Info("debt created", "debt_id", record.ID, "code", record.Code, "kind", record.Kind, "total", record.TotalAmount, "status", record.Status)
	return &record, nil
}

// GetDebt returns the debt with its live status and payment progress
func (s *DebtService) GetDebt(ctx context.Context, id uuid.UUID) (*domain.DebtDetail, error) {
	record, err := s.Repos.Debts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	live := record.WithLiveStatus(s.clock.Now())
	ratio := domain.PaymentProgressRatio(live)
	return &domain.DebtDetail{
		DebtRecord:      live,
		ProgressRatio:   ratio,
		ProgressPercent: utils.Percentage(ratio),
	}, nil
}

func (s *DebtService) ListDebts(ctx context.Context, filter domain.DebtFilter) (*domain.DebtListResponse, error) {
	filter = filter.Normalize()
	now := s.clock.Now()

	records, total, err := s.Repos.Debts.List(ctx, filter, now)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i] = records[i].WithLiveStatus(now)
	}

	return &domain.DebtListResponse{
		Data:       records,
		Pagination: domain.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// Summary aggregates outstanding balances over all open debts
func (s *DebtService) Summary(ctx context.Context) (*domain.DebtSummary, error) {
	open, err := s.Repos.Debts.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	customer := domain.DebtKindCustomer
	supplier := domain.DebtKindSupplier
	overdue := domain.OverdueRecords(open, now)

	return &domain.DebtSummary{
		TotalOutstanding:    domain.TotalOutstanding(open, nil),
		CustomerOutstanding: domain.TotalOutstanding(open, &customer),
		SupplierOutstanding: domain.TotalOutstanding(open, &supplier),
		OpenCount:           len(open),
		OverdueCount:        len(overdue),
		OverdueAmount:       domain.TotalOutstanding(overdue, nil),
		AsOf:                now,
	}, nil
}

// Overdue lists debts whose live status is overdue
func (s *DebtService) Overdue(ctx context.Context) ([]domain.DebtRecord, error) {
	open, err := s.Repos.Debts.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	return domain.OverdueRecords(open, s.clock.Now()), nil
}

// CloseDebt marks a fully paid debt completed
func (s *DebtService) CloseDebt(ctx context.Context, id uuid.UUID) (*domain.DebtRecord, error) {
	release, err := s.lockDebt(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.unlock(release, id)

	record, err := s.Repos.Debts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	closed, err := record.Close(s.clock.Now())
	if err != nil {
		return nil, err
	}
	if closed.Status == record.Status {
		return &closed, nil
	}

	if err := s.Repos.Debts.Update(ctx, &closed, record.Version); err != nil {
		return nil, err
	}

	s.logger.Info("debt closed", "debt_id", id, "code", closed.Code)
	return &closed, nil
}

// DeleteDebt soft deletes a debt without a remaining balance
func (s *DebtService) DeleteDebt(ctx context.Context, id uuid.UUID) error {
	release, err := s.lockDebt(ctx, id)
	if err != nil {
		return err
	}
	defer s.unlock(release, id)

	record, err := s.Repos.Debts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := record.CheckDeletable(); err != nil {
		return err
	}

	if err := s.Repos.Debts.Delete(ctx, id, record.Version, s.clock.Now()); err != nil {
		return err
	}

	s.logger.Info("debt deleted", "debt_id", id, "code", record.Code)
	return nil
}

// ApplyPayment reconciles a payment against a debt. A request carrying a code
// that was already applied to this debt returns the original result.
func (s *DebtService) ApplyPayment(ctx context.Context, id uuid.UUID, request *domain.ApplyPaymentRequest) (*domain.PaymentResult, error) {
	intent := domain.PaymentIntent{
		Amount:      domain.Money(request.Amount),
		Method:      domain.PaymentMethod(request.PaymentMethod),
		Description: request.Description,
		Code:        strings.TrimSpace(request.Code),
	}
	return s.applyPayment(ctx, id, intent, request.ExpectedVersion, nil)
}

func (s *DebtService) applyPayment(ctx context.Context, id uuid.UUID, intent domain.PaymentIntent, expectedVersion *int64, hook afterApply) (*domain.PaymentResult, error) {
	if !intent.Amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(intent.Amount.Int64())
	}

	release, err := s.lockDebt(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.unlock(release, id)

	if intent.Code != "" {
		result, err := s.replay(ctx, id, intent.Code)
		if err != nil || result != nil {
			return result, err
		}
	}

	record, err := s.Repos.Debts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion != nil && *expectedVersion != record.Version {
		return nil, customError.WrapStaleRecordVersion(id.String(), *expectedVersion)
	}

	updated, tx, err := domain.ApplyPayment(*record, intent, s.clock.Now())
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Debts.Update(ctx, &updated, record.Version); err != nil {
			return err
		}
		if err := repos.Transactions.Create(ctx, &tx); err != nil {
			return err
		}
		if hook != nil {
			return hook(repos, updated, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment reconciled",
		"debt_id", id,
		"transaction", tx.Code,
		"amount", tx.Amount,
		"remaining", updated.RemainingAmount,
		"status", updated.Status,
	)

	return &domain.PaymentResult{Debt: updated, Transaction: tx}, nil
}

// replay returns the stored result for an idempotency key, or nil when the key is new
func (s *DebtService) replay(ctx context.Context, id uuid.UUID, code string) (*domain.PaymentResult, error) {
	existing, err := s.Repos.Transactions.GetByCode(ctx, code)
	if errors.Is(err, customError.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !existing.BelongsTo(id) {
		return nil, customError.WrapIdempotencyConflict(code)
	}

	record, err := s.Repos.Debts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment replayed", "debt_id", id, "transaction", code)
	return &domain.PaymentResult{
		Debt:        record.WithLiveStatus(s.clock.Now()),
		Transaction: *existing,
		Replayed:    true,
	}, nil
}

// PaymentHistory returns the debt and every transaction applied to it
func (s *DebtService) PaymentHistory(ctx context.Context, id uuid.UUID) (*domain.PaymentHistory, error) {
	record, err := s.Repos.Debts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txs, err := s.Repos.Transactions.ListByDebtID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentHistory{
		Debt:         record.WithLiveStatus(s.clock.Now()),
		Transactions: txs,
		TotalPaid:    domain.SumCompleted(txs),
	}, nil
}

// AuditDebt checks the ledger of one debt against its stored balances
func (s *DebtService) AuditDebt(ctx context.Context, id uuid.UUID) (*domain.LedgerAudit, error) {
	record, err := s.Repos.Debts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txs, err := s.Repos.Transactions.ListByDebtID(ctx, id)
	if err != nil {
		return nil, err
	}

	audit := &domain.LedgerAudit{
		DebtID:         record.ID,
		Code:           record.Code,
		PaidAmount:     record.PaidAmount,
		CompletedTotal: domain.SumCompleted(txs),
		Consistent:     true,
	}
	if err := domain.VerifyLedger(*record, txs); err != nil {
		audit.Consistent = false
		audit.Problem = err.Error()
		s.logger.Warn("ledger mismatch", "debt_id", id, "problem", audit.Problem)
	}
	return audit, nil
}

// SweepOverdue persists the overdue status for open debts past their due date.
// Debts that are locked or changed meanwhile are skipped until the next run.
func (s *DebtService) SweepOverdue(ctx context.Context) (int, error) {
	open, err := s.Repos.Debts.ListOpen(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	marked := 0
	for _, record := range open {
		if record.Status == domain.DebtStatusOverdue || record.LiveStatus(now) != domain.DebtStatusOverdue {
			continue
		}

		ok, err := s.markOverdue(ctx, record.ID, now)
		if err != nil {
			if ctx.Err() != nil {
				return marked, ctx.Err()
			}
			s.logger.Warn("overdue sweep skipped debt", "debt_id", record.ID, "error", err)
			continue
		}
		if ok {
			marked++
		}
	}

	s.logger.Info("overdue sweep finished", "open", len(open), "marked", marked)
	return marked, nil
}

func (s *DebtService) markOverdue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	release, err := s.lockDebt(ctx, id)
	if err != nil {
		return false, err
	}
	defer s.unlock(release, id)

	record, err := s.Repos.Debts.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if record.Status == domain.DebtStatusOverdue || record.LiveStatus(now) != domain.DebtStatusOverdue {
		return false, nil
	}

	status, err := domain.Transition(record.Status, domain.DebtStatusOverdue)
	if err != nil {
		return false, err
	}

	updated := *record
	updated.Status = status
	updated.UpdatedAt = now
	if err := s.Repos.Debts.Update(ctx, &updated, record.Version); err != nil {
		return false, err
	}
	return true, nil
}

// DueSoon lists open debts due within the configured reminder window
func (s *DebtService) DueSoon(ctx context.Context) ([]domain.DebtRecord, error) {
	open, err := s.Repos.Debts.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	window := s.config.Business.ReminderWindowDays
	due := make([]domain.DebtRecord, 0)
	for _, record := range open {
		if record.DueDate == nil || utils.IsPastDue(record.DueDate, now) {
			continue
		}
		if utils.DaysUntil(*record.DueDate, now) <= window {
			due = append(due, record.WithLiveStatus(now))
		}
	}
	return due, nil
}

func (s *DebtService) lockDebt(ctx context.Context, id uuid.UUID) (lock.ReleaseFunc, error) {
	release, err := s.locker.Acquire(ctx, id.String(), s.config.Lock.TTL)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, lock.ErrNotAcquired) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, customError.WrapReconciliationInProgress(id.String(), err)
	}
	return nil, customError.WrapCacheError(err)
}

func (s *DebtService) unlock(release lock.ReleaseFunc, id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := release(ctx); err != nil {
		s.logger.Warn("failed to release debt lock", "debt_id", id, "error", err)
	}
}
