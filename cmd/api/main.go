package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/api"
	"github.com/Smashkat12/crechebooks-sub005/internal/config"
	"github.com/Smashkat12/crechebooks-sub005/internal/events"
	"github.com/Smashkat12/crechebooks-sub005/internal/logger"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
	"github.com/Smashkat12/crechebooks-sub005/internal/pipeline"
	"github.com/Smashkat12/crechebooks-sub005/internal/repository"
	"github.com/Smashkat12/crechebooks-sub005/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	log := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "crechebooks-api",
		File:        cfg.Log.File,
		FileOnly:    cfg.Log.FileOnly,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
		Compress:    cfg.Log.Compress,
	})
	logger.SetDefault(log)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	staffRepo := repository.NewStaffRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	runRepo := repository.NewSetupRunRepository(db)
	adjustmentRepo := repository.NewAdjustmentRepository(db)

	// Initialize payroll engine client
	payrollClient := payroll.NewRestClient(&payroll.ClientConfig{
		BaseURL:   cfg.Payroll.BaseURL,
		APIKey:    cfg.Payroll.APIKey,
		CompanyID: cfg.Payroll.CompanyID,
		Timeout:   cfg.Payroll.Timeout,
	})

	// Initialize event emitter; without a webhook URL events only go to
	// the log.
	var emitter events.Emitter = events.NewLogEmitter(log)
	if cfg.Events.WebhookURL != "" {
		emitter = events.NewWebhookEmitter(&events.WebhookConfig{
			URL:     cfg.Events.WebhookURL,
			Timeout: cfg.Events.WebhookTimeout,
		}, log)
	}

	// Register pipeline steps in execution order
	leaveSettings := pipeline.LeaveSettings{
		YearStartMonth: time.Month(cfg.Leave.YearStartMonth),
		FullTimeHours:  cfg.Leave.FullTimeHours,
		PartTimeHours:  cfg.Leave.PartTimeHours,
	}
	orchestrator := pipeline.NewOrchestrator(log,
		pipeline.NewCreateEmployeeStep(payrollClient),
		pipeline.NewSetSalaryStep(payrollClient, cfg.Payroll.RetryAttempts, cfg.Payroll.RetryBaseDelay),
		pipeline.NewAssignProfileStep(payrollClient),
		pipeline.NewSetupLeaveStep(payrollClient, leaveSettings),
		pipeline.NewConfigureTaxStep(payrollClient),
		pipeline.NewAddCalculationsStep(payrollClient, adjustmentRepo),
		pipeline.NewVerifySetupStep(payrollClient),
		pipeline.NewSendNotificationStep(emitter),
	)

	// Initialize services
	setupService := service.NewSetupService(
		staffRepo,
		tenantRepo,
		runRepo,
		orchestrator,
		emitter,
		log,
	)

	// Setup router
	router := api.SetupRouter(setupService, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logger.Fields{
			"port":  cfg.Server.Port,
			"mode":  cfg.Server.Mode,
			"steps": len(orchestrator.StepNames()),
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}
