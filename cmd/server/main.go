package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adpulse/internal/delivery"
	"adpulse/internal/infrastructure"
	"adpulse/internal/usecase"
	"adpulse/pkg/config"
	"adpulse/pkg/logger"
	"adpulse/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	m := metrics.New()

	// Repositories
	snapshotRepo := infrastructure.NewSnapshotRepository(log)
	ruleRepo := infrastructure.NewRuleRepository(log)
	logRepo := infrastructure.NewActionLogRepository(log)

	// Upstream client
	apiClient := infrastructure.NewHTTPClient(
		cfg.Insights.APIURL,
		cfg.Insights.APIToken,
		cfg.Sync.RequestTimeout,
		cfg.Sync.RateLimitPerSecond,
		log,
		m,
	)

	// Services
	executor := usecase.NewActionExecutor(ruleRepo, logRepo, log, m)
	syncService := usecase.NewSyncService(snapshotRepo, ruleRepo, logRepo, apiClient, executor, log, m, cfg.Insights.CampaignID)
	ruleService := usecase.NewRuleService(ruleRepo, logRepo, syncService, log, m)
	scheduler := usecase.NewScheduler(syncService, cfg.Sync.Interval, log, m)

	// Auto-start only in production or with an explicit opt-in
	if cfg.AutoStartScheduler() {
		scheduler.Start()
	} else {
		log.Info("Scheduler disabled, set ENABLE_SCHEDULER=true to enable or start via API")
	}

	// HTTP
	handlers := delivery.NewHTTPHandlers(syncService, ruleService, scheduler, log, m)
	router := delivery.NewHTTPRouter(handlers, log, m)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server crashed")
		}
	}()

	waitForSignal()
	log.Info("Shutting down")

	scheduler.Stop()

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
