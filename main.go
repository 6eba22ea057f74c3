package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rxguard/rxguard-api/config"
	"github.com/rxguard/rxguard-api/data"
	"github.com/rxguard/rxguard-api/logging"
	"github.com/rxguard/rxguard-api/refdata"
	"github.com/rxguard/rxguard-api/scheduler"
	"github.com/rxguard/rxguard-api/server"
	"github.com/rxguard/rxguard-api/validation"
)

func main() {
	// Optional .env for local development; the environment itself wins.
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir)
	logging.Info("Starting rxguard-api",
		"env", cfg.Env,
		"address", cfg.Address,
		"port", cfg.Port,
	)

	container := data.NewDataContainer()
	container.SetServerStartTime(time.Now())

	loader := refdata.NewLoader(cfg.DataDir)

	// Surface authoring mistakes in the reference tables early; they are
	// warnings, not startup failures.
	if tables, err := loader.Load(); err == nil {
		validator := validation.NewDataValidator()
		if report := validator.ReportDataQuality(tables); report.HasIssues() {
			logging.Warn("Reference data quality issues detected",
				"duplicate_generics", report.DuplicateGenerics,
				"unknown_interaction_drugs", report.UnknownInteractionDrugs,
				"renal_band_issues", report.RenalBandIssues,
				"cross_allergy_orphans", report.CrossAllergyOrphans,
			)
		}
	}

	sched := scheduler.NewScheduler(container, loader, cfg.ReloadAt)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start reference data scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, container)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logging.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	} else {
		logging.Info("Server exited gracefully")
	}
}
