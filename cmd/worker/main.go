package main

import (
	"log"
	"time"

	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/database"
	"github.com/taskflow/taskflow/internal/digest"
	"github.com/taskflow/taskflow/internal/events"
	"github.com/taskflow/taskflow/internal/locks"
	"github.com/taskflow/taskflow/internal/mailer"
	"github.com/taskflow/taskflow/internal/worker"
)

// Standalone worker mode: processes digest tasks and runs the periodic
// scheduler without serving HTTP. Deploy alongside cmd/server when the
// embedded worker is disabled.
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

	runner := digest.NewRunner(
		&digest.GormScheduleStore{DB: db},
		&digest.GormTaskStore{DB: db},
		&digest.Composer{AppURL: cfg.AppURL},
		sender,
		locker,
		publisher,
		logger,
	)

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer stopScheduler()

	// Blocks until shutdown signal
	if err := worker.Run(cfg, runner); err != nil {
		log.Fatalf("worker error: %v", err)
	}
}
