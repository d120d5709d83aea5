package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/config"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/planilla-portal-go/internal/handler/http"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/cron"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/hrapi"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/sse"
	"github.com/cmlabs-hris/planilla-portal-go/internal/repository/postgresql"
	aguinaldoService "github.com/cmlabs-hris/planilla-portal-go/internal/service/aguinaldo"
	attendanceService "github.com/cmlabs-hris/planilla-portal-go/internal/service/attendance"
	payrollService "github.com/cmlabs-hris/planilla-portal-go/internal/service/payroll"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := hrapi.NewClient(cfg.UpstreamAPI.BaseURL, cfg.UpstreamAPI.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create HR API client: %w", err)
	}

	// Bulk operations are audited only when a database is configured.
	var recorder payroll.BatchRecorder
	if cfg.Audit.Enabled {
		db, err := database.NewPostgreSQLDB(cfg.AuditDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to audit database: %w", err)
		}
		defer db.Close()

		if err := postgresql.EnsureBatchAuditSchema(context.Background(), db); err != nil {
			return err
		}
		recorder = postgresql.NewBatchAuditRepository(db)
	}

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SSEExpiration)

	punchClock := attendanceService.NewPunchClockService(hrapi.NewAttendanceGateway(client), hub)
	payrollSvc := payrollService.NewPayrollService(
		hrapi.NewPayrollGateway(client),
		recorder,
		cfg.Payroll.SocialSecurityRate,
		cfg.Payroll.BulkConcurrency,
	)
	aguinaldoSvc := aguinaldoService.NewAguinaldoService(
		hrapi.NewAguinaldoGateway(client),
		recorder,
		cfg.Payroll.BulkConcurrency,
	)

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService),
		Attendance: appHTTP.NewAttendanceHandler(punchClock, hub, JWTService),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Aguinaldo:  appHTTP.NewAguinaldoHandler(aguinaldoSvc),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	cron.NewHousekeepingJobs(punchClock, JWTService).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Request contexts derive from ctx so open SSE streams end on shutdown.
	// Bulk batches detach from it and finish before Shutdown returns.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "upstream", cfg.UpstreamAPI.BaseURL, "audit", cfg.Audit.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
