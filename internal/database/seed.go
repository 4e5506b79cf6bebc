package database

import (
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/models"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	// Check if seed data already exists
	var existingUser models.User
	result := db.Where("email = ?", "demo@taskflow.app").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	user := models.User{
		Email:    "demo@taskflow.app",
		Name:     "Demo User",
		Timezone: "America/Los_Angeles",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	website := models.Project{
		UserID:      user.ID,
		Name:        "Website Redesign",
		Description: "Full redesign of the company website with new branding",
	}
	mobile := models.Project{
		UserID:      user.ID,
		Name:        "Mobile App MVP",
		Description: "Build the first version of the mobile app",
	}
	if err := db.Create(&website).Error; err != nil {
		return err
	}
	if err := db.Create(&mobile).Error; err != nil {
		return err
	}

	now := time.Now()
	inDays := func(d int) *time.Time {
		t := now.AddDate(0, 0, d)
		return &t
	}

	tasks := []models.Task{
		{
			UserID: user.ID, ProjectID: website.ID,
			Title:    "Create new wireframes for homepage",
			Status:   models.TaskStatusInProgress,
			Priority: models.PriorityP0,
			DueDate:  inDays(2),
		},
		{
			UserID: user.ID, ProjectID: website.ID,
			Title:    "Design system — colors, typography, spacing",
			Status:   models.TaskStatusInProgress,
			Priority: models.PriorityP1,
			DueDate:  inDays(5),
		},
		{
			UserID: user.ID, ProjectID: website.ID,
			Title:    "Write new copy for About page",
			Status:   models.TaskStatusBacklog,
			Priority: models.PriorityP2,
		},
		{
			UserID: user.ID, ProjectID: website.ID,
			Title:       "Set up staging environment",
			Description: "Blocked on DevOps access. Need credentials from IT.",
			Status:      models.TaskStatusBlocked,
			Priority:    models.PriorityP0,
			DueDate:     inDays(-1), // overdue
		},
		{
			UserID: user.ID, ProjectID: mobile.ID,
			Title:       "Implement user authentication",
			Description: "Using Auth0 for mobile OAuth flows",
			Status:      models.TaskStatusInProgress,
			Priority:    models.PriorityP0,
			DueDate:     inDays(3),
		},
		{
			UserID: user.ID, ProjectID: mobile.ID,
			Title:    "Build home feed screen",
			Status:   models.TaskStatusBacklog,
			Priority: models.PriorityP1,
		},
	}
	for i := range tasks {
		if err := db.Create(&tasks[i]).Error; err != nil {
			return err
		}
	}

	schedule := models.EmailSchedule{
		UserID:              user.ID,
		Enabled:             true,
		Cadence:             models.CadenceDaily,
		TimeOfDay:           "08:00",
		Timezone:            "America/Los_Angeles",
		IncludeProjectIDs:   datatypes.JSON([]byte(`[]`)),
		OutstandingStatuses: datatypes.JSON([]byte(`["BACKLOG","IN_PROGRESS","BLOCKED"]`)),
	}
	if err := db.Create(&schedule).Error; err != nil {
		return err
	}

	log.Println("Seeded dev data: 1 user, 2 projects, 6 tasks, 1 email schedule")
	return nil
}
