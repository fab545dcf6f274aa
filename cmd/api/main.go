package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	_ "github.com/NMHx2005/lms-backend-sub006/docs"
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/handlers"
	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/http/routes"
	"github.com/NMHx2005/lms-backend-sub006/internal/bootstrap"
	"github.com/NMHx2005/lms-backend-sub006/internal/config"
	"github.com/NMHx2005/lms-backend-sub006/internal/job"
	"github.com/NMHx2005/lms-backend-sub006/pkg/logger"

	"go.uber.org/zap"
)

// @title           LMS Payment Service API
// @version         1.0
// @description     VNPay checkout, IPN confirmation and reconciliation for LMS packages and courses.

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("[bootstrap] wiring failed", zap.Error(err))
	}
	defer app.Close()

	if cfg.Reconcile.Enabled {
		sweeper := job.NewReconciliationJob(app.Reconciliation, app.Locker, cfg.Reconcile.LockTTL, zl)
		scheduler, err := job.NewScheduler(cfg.Reconcile.Cron, sweeper, zl)
		if err != nil {
			zl.Fatal("[job] invalid RECONCILE_CRON", zap.String("spec", cfg.Reconcile.Cron), zap.Error(err))
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	router := routes.NewRouter(cfg, routes.Handlers{
		Checkout:     handlers.NewCheckoutHandler(app.Checkout),
		VNPay:        handlers.NewVNPayHandler(app.Confirmation, app.Return, cfg.FrontendResultURL, zl),
		Payment:      handlers.NewPaymentHandler(app.Payments),
		AdminPayment: handlers.NewAdminPaymentHandler(app.Payments, app.Reconciliation),
	}, zl)

	srv := routes.NewServer(cfg, router)
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	zl.Info("[http] listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Error("[http] server stopped", zap.Error(err))
	}
}
