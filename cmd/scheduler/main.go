package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/segyhp/receipt-debt-engine/internal/app"
	"github.com/segyhp/receipt-debt-engine/internal/config"
	"github.com/segyhp/receipt-debt-engine/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(appLogger)
	appLogger.Info("starting debt scheduler")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetHealthTimeout())
	application, err := app.New(ctx, cfg, appLogger)
	cancel()
	if err != nil {
		appLogger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	cronLogger := cron.VerbosePrintfLogger(slog.NewLogLogger(appLogger.Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithLocation(cfg.GetSchedulerLocation()),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	jobs := &debtJobs{service: application.Debts, currency: cfg.Business.Currency, logger: appLogger}
	if err := jobs.register(c, cfg.Scheduler); err != nil {
		appLogger.Error("failed to schedule jobs", "error", err)
		os.Exit(1)
	}

	c.Start()
	appLogger.Info("scheduler started", "timezone", cfg.Scheduler.Timezone)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down scheduler")
	<-c.Stop().Done()
	appLogger.Info("scheduler stopped")
}
