package digest

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/models"
)

// ScheduleStore loads enabled schedules and persists watermark advances.
type ScheduleStore interface {
	FindEnabled(ctx context.Context) ([]models.EmailSchedule, error)
	// AdvanceWatermark moves last_sent_at forward to instant. It is a point
	// write: the update applies only while the stored watermark is still
	// older, so it never moves backward and a concurrent pass that already
	// advanced it turns this into a no-op.
	AdvanceWatermark(ctx context.Context, scheduleID uint, instant time.Time) error
}

// TaskStore queries outstanding tasks for digest composition.
type TaskStore interface {
	// FindOutstanding returns the user's tasks whose status is in statuses
	// and whose project is either in projectIDs (when non-empty) or
	// non-archived (when empty), ordered by priority then due date.
	FindOutstanding(ctx context.Context, userID uint, statuses []string, projectIDs []uint) ([]TaskWithProject, error)
}

// GormScheduleStore is the Postgres-backed ScheduleStore.
type GormScheduleStore struct {
	DB *gorm.DB
}

func (s *GormScheduleStore) FindEnabled(ctx context.Context) ([]models.EmailSchedule, error) {
	var schedules []models.EmailSchedule
	err := s.DB.WithContext(ctx).
		Preload("User").
		Where("enabled = ?", true).
		Order("id asc").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load enabled schedules: %w", err)
	}
	return schedules, nil
}

func (s *GormScheduleStore) AdvanceWatermark(ctx context.Context, scheduleID uint, instant time.Time) error {
	result := s.DB.WithContext(ctx).
		Model(&models.EmailSchedule{}).
		Where("id = ? AND (last_sent_at IS NULL OR last_sent_at < ?)", scheduleID, instant).
		Update("last_sent_at", instant)
	if result.Error != nil {
		return fmt.Errorf("failed to advance watermark: %w", result.Error)
	}
	return nil
}

// GormTaskStore is the Postgres-backed TaskStore.
type GormTaskStore struct {
	DB *gorm.DB
}

func (s *GormTaskStore) FindOutstanding(ctx context.Context, userID uint, statuses []string, projectIDs []uint) ([]TaskWithProject, error) {
	q := s.DB.WithContext(ctx).
		Model(&models.Task{}).
		Joins("JOIN projects ON projects.id = tasks.project_id AND projects.deleted_at IS NULL").
		Where("tasks.user_id = ?", userID).
		Where("tasks.status IN ?", statuses)

	if len(projectIDs) > 0 {
		q = q.Where("tasks.project_id IN ?", projectIDs)
	} else {
		q = q.Where("projects.archived = ?", false)
	}

	var tasks []models.Task
	if err := q.Preload("Project").
		Order("tasks.priority asc, tasks.due_date asc NULLS LAST").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to query outstanding tasks: %w", err)
	}

	out := make([]TaskWithProject, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskWithProject{Task: t, Project: t.Project})
	}
	return out, nil
}
