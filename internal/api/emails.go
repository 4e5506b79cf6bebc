package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/digest"
	"github.com/taskflow/taskflow/internal/mailer"
	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/timeutil"
	"github.com/taskflow/taskflow/internal/worker"
)

// ListEmailLogsHandler returns the caller's 20 most recent audit rows.
func ListEmailLogsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var logs []models.EmailLog
		if err := db.Where("user_id = ?", user.ID).
			Order("created_at desc").
			Limit(20).
			Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list email logs"})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

// TestEmailHandler composes the caller's current digest on demand. With
// {"preview": true} it returns the content without sending; otherwise it
// dispatches through the configured mail transport immediately,
// independent of the schedule's fire window.
func TestEmailHandler(db *gorm.DB, tasks digest.TaskStore, composer *digest.Composer, sender digest.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var body struct {
			Preview bool `json:"preview"`
		}
		// Empty body means send
		c.ShouldBindJSON(&body)

		statuses := models.DefaultOutstandingStatuses
		var projectIDs []uint
		tz := user.Timezone

		var schedule models.EmailSchedule
		if err := db.Where("user_id = ?", user.ID).First(&schedule).Error; err == nil {
			statuses = schedule.StatusFilter()
			projectIDs = schedule.ProjectFilter()
			tz = schedule.Timezone
		}

		outstanding, err := tasks.FindOutstanding(c.Request.Context(), user.ID, statuses, projectIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query tasks"})
			return
		}

		now := time.Now().UTC()
		content := composer.Compose(outstanding, user.Email, now, timeutil.LoadLocation(tz))

		if body.Preview {
			c.JSON(http.StatusOK, gin.H{
				"subject":   content.Subject,
				"bodyHtml":  content.BodyHTML,
				"bodyText":  content.BodyText,
				"taskCount": len(outstanding),
			})
			return
		}

		if err := sender.Send(c.Request.Context(), user.ID, mailer.Message{
			To:       user.Email,
			Subject:  content.Subject,
			BodyHTML: content.BodyHTML,
			BodyText: content.BodyText,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "to": user.Email, "taskCount": len(outstanding)})
	}
}

// TriggerWorkerHandler enqueues one schedule-evaluation pass. Idempotent:
// the task's uniqueness window collapses concurrent triggers, and the
// evaluator's watermark makes redundant passes no-ops.
func TriggerWorkerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := worker.EnqueueProcessSchedules(); err != nil {
			if errors.Is(err, asynq.ErrDuplicateTask) {
				// A pass is already queued; the trigger still succeeded.
				c.JSON(http.StatusOK, gin.H{"ok": true, "enqueued": false})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue schedule pass"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "enqueued": true})
	}
}
