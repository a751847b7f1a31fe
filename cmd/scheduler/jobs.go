package main

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/segyhp/receipt-debt-engine/internal/config"
	"github.com/segyhp/receipt-debt-engine/internal/domain"
)

type debtScheduler interface {
	SweepOverdue(ctx context.Context) (int, error)
	DueSoon(ctx context.Context) ([]domain.DebtRecord, error)
}

type debtJobs struct {
	service  debtScheduler
	currency string
	logger   *slog.Logger
}

func (j *debtJobs) register(c *cron.Cron, cfg config.SchedulerConfig) error {
	if _, err := c.AddFunc(cfg.OverdueCron, j.sweepOverdue); err != nil {
		return err
	}
	if _, err := c.AddFunc(cfg.ReminderCron, j.remindDueSoon); err != nil {
		return err
	}
	j.logger.Info("cron jobs scheduled", "overdue", cfg.OverdueCron, "reminder", cfg.ReminderCron)
	return nil
}

// sweepOverdue persists the overdue status reads already derive
func (j *debtJobs) sweepOverdue() {
	marked, err := j.service.SweepOverdue(context.Background())
	if err != nil {
		j.logger.Error("overdue sweep failed", "marked", marked, "error", err)
		return
	}
	j.logger.Info("overdue sweep done", "marked", marked)
}

func (j *debtJobs) remindDueSoon() {
	records, err := j.service.DueSoon(context.Background())
	if err != nil {
		j.logger.Error("due soon lookup failed", "error", err)
		return
	}

	for _, record := range records {
		j.logger.Info("debt due soon",
			"debt_id", record.ID,
			"code", record.Code,
			"counterparty", record.CounterpartyName,
			"due_date", record.DueDate,
			"remaining", record.RemainingAmount.Format(j.currency),
		)
	}
	j.logger.Info("due soon reminder done", "count", len(records))
}
