package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"probe-inventory-backend/config"
	"probe-inventory-backend/internal/api"
	"probe-inventory-backend/internal/backup"
	"probe-inventory-backend/internal/db"
	"probe-inventory-backend/internal/inventory"
	"probe-inventory-backend/internal/notification"
	"probe-inventory-backend/internal/sheet"
)

func main() {
	logger := log.New(os.Stdout, "probe-inventory ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheetStore := sheet.NewGormSheet(gormDB, cfg.Sheet.BatchSize)
	repo := inventory.NewRepository(sheetStore)
	if err := repo.Load(ctx); err != nil {
		// Degrades to an empty working table; reads keep working and the
		// UI shows the connectivity state via /api/health.
		logger.Printf("warning: could not load inventory at startup: %v", err)
	}

	var backupSvc *backup.Service
	if cfg.Backup.Enabled {
		backupSvc = backup.NewService(gormDB, &cfg.Backup)
		go backupSvc.Run(ctx)
	}

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		if cfg.Reminder.Enabled {
			pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, repo, webpushOptions)
			reminder := notification.NewReminder(repo, pool, cfg.Reminder.Interval)
			go reminder.Run(ctx)
		}
	} else if cfg.Reminder.Enabled {
		logger.Println("reminder service disabled: VAPID keys are not configured")
	}

	router := api.NewRouter(cfg, repo, gormDB, webpushOptions, backupSvc)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
