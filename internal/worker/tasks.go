package worker

import (
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskProcessSchedules = "digest:process-schedules"
)

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueProcessSchedules enqueues one schedule-evaluation pass. The
// uniqueness window dedupes overlapping triggers (periodic timer plus a
// manual call) into a single queued task.
func EnqueueProcessSchedules() error {
	task := asynq.NewTask(
		TaskProcessSchedules,
		nil, // empty payload - the handler evaluates all enabled schedules
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(4*time.Minute),
	)

	_, err := client.Enqueue(task)
	return err
}
