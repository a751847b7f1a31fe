package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/segyhp/receipt-debt-engine/internal/app"
	"github.com/segyhp/receipt-debt-engine/internal/config"
	"github.com/segyhp/receipt-debt-engine/internal/handler"
	"github.com/segyhp/receipt-debt-engine/pkg/logger"
	"github.com/segyhp/receipt-debt-engine/pkg/response"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetHealthTimeout())
	application, err := app.New(ctx, cfg, appLogger)
	cancel()
	if err != nil {
		appLogger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	debtHandler := handler.NewDebtHandler(application.Debts)
	receiptPaymentHandler := handler.NewReceiptPaymentHandler(application.Receipts)
	healthHandler := handler.NewHealthHandler(application.DB, application.RedisCmdable(), cfg.GetHealthTimeout())

	router := setupRoutes(appLogger, debtHandler, receiptPaymentHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("server starting", "addr", server.Addr, "env", cfg.Server.Env, "lock_backend", cfg.Lock.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", "error", err)
		return
	}

	appLogger.Info("server exited")
}

func setupRoutes(
	logger *slog.Logger,
	debtHandler *handler.DebtHandler,
	receiptPaymentHandler *handler.ReceiptPaymentHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.JSONMiddleware)

	healthHandler.RegisterRoutes(router)

	api := router.PathPrefix("/api/v1").Subrouter()
	debtHandler.RegisterRoutes(api)
	receiptPaymentHandler.RegisterRoutes(api)

	// preflight requests only need the CORS headers
	router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	return router
}
