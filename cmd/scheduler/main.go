package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/karofin/loan_management_app/internal/core/services"
	"github.com/karofin/loan_management_app/internal/middleware"
	"github.com/karofin/loan_management_app/internal/repositories/database/pgsql"
	"github.com/karofin/loan_management_app/pkg/config"
	"github.com/karofin/loan_management_app/pkg/database"
)

// The scheduler owns every time-driven status change; the payment path never
// flags overdue installments itself.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	repaymentSvc := services.NewRepaymentService(repos.RepaymentRepo, repos.LoanRepo, repos.AuditRepo, nil)

	c := cron.New()
	_, err = c.AddFunc(cfg.OverdueSweepSchedule, func() {
		ctx := middleware.WithLogger(context.Background(), logger)
		ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		flagged, err := repaymentSvc.SweepOverdue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Overdue sweep failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("Overdue sweep completed", slog.Int64("flagged", flagged))
	})
	if err != nil {
		logger.Error("Failed to schedule overdue sweep", slog.String("schedule", cfg.OverdueSweepSchedule), slog.String("error", err.Error()))
		os.Exit(1)
	}

	c.Start()
	logger.Info("Scheduler started", slog.String("overdue_sweep_schedule", cfg.OverdueSweepSchedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	ctx := c.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
