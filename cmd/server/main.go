package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskflow/taskflow/internal/api"
	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/database"
	"github.com/taskflow/taskflow/internal/digest"
	"github.com/taskflow/taskflow/internal/events"
	"github.com/taskflow/taskflow/internal/locks"
	"github.com/taskflow/taskflow/internal/mailer"
	"github.com/taskflow/taskflow/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if cfg.SeedDev && cfg.Env == "development" {
		if err := database.SeedDevData(db); err != nil {
			log.Fatalf("failed to seed dev data: %v", err)
		}
	}

	if err := worker.InitClient(cfg.RedisURL); err != nil {
		log.Fatalf("failed to init task client: %v", err)
	}
	defer worker.CloseClient()

	locker, err := locks.New(cfg.RedisURL, 2*time.Minute)
	if err != nil {
		log.Fatalf("failed to init schedule locker: %v", err)
	}
	defer locker.Close()

	publisher, err := events.NewPublisher(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to init event publisher: %v", err)
	}
	defer publisher.Close()

	var transport mailer.Transport
	if cfg.ResendAPIKey != "" {
		transport = mailer.NewResendTransport(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		transport = &mailer.DevTransport{Logger: logger}
	}
	sender := mailer.New(transport, db, logger)

	composer := &digest.Composer{AppURL: cfg.AppURL}
	runner := digest.NewRunner(
		&digest.GormScheduleStore{DB: db},
		&digest.GormTaskStore{DB: db},
		composer,
		sender,
		locker,
		publisher,
		logger,
	)

	// Embedded worker + scheduler: one process serves HTTP, processes
	// tasks and enqueues the periodic pass.
	stopWorker, err := worker.Start(cfg, runner)
	if err != nil {
		log.Fatalf("failed to start worker: %v", err)
	}
	defer stopWorker()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer stopScheduler()

	router := api.NewRouter(cfg, db, &digest.GormTaskStore{DB: db}, composer, sender)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		errCh <- router.Run(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("server error: %v", err)
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}
}
