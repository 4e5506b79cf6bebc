package worker

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/taskflow/taskflow/internal/config"
)

// StartScheduler creates and starts an Asynq Scheduler that enqueues the
// periodic schedule-evaluation pass. The cron spec runs in UTC; per-user
// timezone math happens inside the evaluator, not here.
// Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	task := asynq.NewTask(
		TaskProcessSchedules,
		nil, // empty payload - handler evaluates all enabled schedules
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(4*time.Minute), // prevent duplicate if scheduler runs twice
	)

	entryID, err := scheduler.Register(cfg.DigestSchedule, task)
	if err != nil {
		return nil, fmt.Errorf("failed to register digest schedule: %w", err)
	}

	// Start scheduler (non-blocking)
	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info(
		"Scheduler started",
		"schedule", cfg.DigestSchedule,
		"entry_id", entryID,
	)

	// Return shutdown function
	return func() { scheduler.Shutdown() }, nil
}
