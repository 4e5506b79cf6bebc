package digest

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskflow/taskflow/internal/events"
	"github.com/taskflow/taskflow/internal/mailer"
	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/timeutil"
)

// Sender dispatches a composed digest. *mailer.Mailer satisfies this.
type Sender interface {
	Send(ctx context.Context, userID uint, msg mailer.Message) error
}

// Locker provides per-schedule mutual exclusion around the fire branch.
// *locks.ScheduleLocker satisfies this.
type Locker interface {
	TryAcquire(ctx context.Context, scheduleID uint) (release func(), acquired bool, err error)
}

// EventPublisher publishes digest-sent events. *events.Publisher satisfies
// this. A nil publisher disables event publishing.
type EventPublisher interface {
	PublishDigestSent(ctx context.Context, event events.DigestSent) (string, error)
}

// Runner executes one evaluation pass over all enabled schedules. Each
// schedule is processed independently: a failure is logged and leaves that
// schedule's watermark untouched so the next invocation retries, while the
// pass continues over the remaining schedules.
type Runner struct {
	schedules ScheduleStore
	tasks     TaskStore
	composer  *Composer
	sender    Sender
	locker    Locker
	publisher EventPublisher
	logger    *slog.Logger
}

// NewRunner wires a Runner from its collaborators. publisher may be nil.
func NewRunner(schedules ScheduleStore, tasks TaskStore, composer *Composer, sender Sender, locker Locker, publisher EventPublisher, logger *slog.Logger) *Runner {
	return &Runner{
		schedules: schedules,
		tasks:     tasks,
		composer:  composer,
		sender:    sender,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
	}
}

// Run performs one pass at the given instant. Safe to invoke redundantly:
// the evaluator's watermark check plus the per-schedule lock keep a slot
// from being sent twice.
func (r *Runner) Run(ctx context.Context, now time.Time) error {
	schedules, err := r.schedules.FindEnabled(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("Schedule pass starting", "schedules", len(schedules), "now", now.UTC().Format(time.RFC3339))

	for i := range schedules {
		s := &schedules[i]
		if err := r.process(ctx, s, now); err != nil {
			r.logger.Error("Schedule processing failed",
				"schedule_id", s.ID,
				"user_id", s.UserID,
				"error", err.Error(),
			)
		}
	}

	return nil
}

func (r *Runner) process(ctx context.Context, s *models.EmailSchedule, now time.Time) error {
	decision := Evaluate(s, now)
	if !decision.Fire {
		r.logger.Debug("Schedule skipped", "schedule_id", s.ID, "reason", decision.Reason)
		return nil
	}

	// The watermark check above is read-then-write; the lock closes the
	// race between overlapping invocations.
	release, acquired, err := r.locker.TryAcquire(ctx, s.ID)
	if err != nil {
		return err
	}
	if !acquired {
		r.logger.Info("Schedule locked by another invocation, skipping", "schedule_id", s.ID)
		return nil
	}
	defer release()

	tasks, err := r.tasks.FindOutstanding(ctx, s.UserID, s.StatusFilter(), s.ProjectFilter())
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		// An empty digest is never sent, but the watermark still advances
		// so the schedule does not re-fire later in the same window.
		r.logger.Info("No outstanding tasks, skipping email", "schedule_id", s.ID)
		return r.schedules.AdvanceWatermark(ctx, s.ID, now)
	}

	loc := timeutil.LoadLocation(s.Timezone)
	content := r.composer.Compose(tasks, s.User.Email, now, loc)

	if err := r.sender.Send(ctx, s.UserID, mailer.Message{
		To:       s.User.Email,
		Subject:  content.Subject,
		BodyHTML: content.BodyHTML,
		BodyText: content.BodyText,
	}); err != nil {
		return err
	}

	if r.publisher != nil {
		if _, err := r.publisher.PublishDigestSent(ctx, events.DigestSent{
			ScheduleID: s.ID,
			UserID:     s.UserID,
			Subject:    content.Subject,
			TaskCount:  len(tasks),
		}); err != nil {
			// The send already happened; event delivery is best effort.
			r.logger.Warn("Failed to publish digest event", "schedule_id", s.ID, "error", err.Error())
		}
	}

	if err := r.schedules.AdvanceWatermark(ctx, s.ID, now); err != nil {
		return err
	}

	r.logger.Info("Digest sent",
		"schedule_id", s.ID,
		"user_id", s.UserID,
		"to", s.User.Email,
		"task_count", len(tasks),
	)
	return nil
}
