package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/models"
)

type taskCreate struct {
	ProjectID   uint    `json:"projectId" binding:"required"`
	Title       string  `json:"title" binding:"required,max=500"`
	Description string  `json:"description" binding:"max=2000"`
	Status      string  `json:"status" binding:"omitempty,oneof=BACKLOG IN_PROGRESS BLOCKED DONE"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=P0 P1 P2 P3"`
	DueDate     *string `json:"dueDate"` // RFC 3339 date or date-time
}

type taskUpdate struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=500"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      *string `json:"status" binding:"omitempty,oneof=BACKLOG IN_PROGRESS BLOCKED DONE"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=P0 P1 P2 P3"`
	DueDate     *string `json:"dueDate"`
}

func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasksHandler returns the caller's tasks with optional filters:
// projectId, status, priority, hideDone (default true), sort
// (priority|dueDate|updatedAt).
func ListTasksHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		q := db.Preload("Project").Where("user_id = ?", user.ID)

		if projectID := c.Query("projectId"); projectID != "" {
			q = q.Where("project_id = ?", projectID)
		}
		if status := c.Query("status"); status != "" && status != "ALL" {
			q = q.Where("status = ?", status)
		} else if c.DefaultQuery("hideDone", "true") != "false" {
			q = q.Where("status <> ?", models.TaskStatusDone)
		}
		if priority := c.Query("priority"); priority != "" && priority != "ALL" {
			q = q.Where("priority = ?", priority)
		}

		switch c.DefaultQuery("sort", "priority") {
		case "dueDate":
			q = q.Order("due_date asc NULLS LAST, priority asc")
		case "updatedAt":
			q = q.Order("updated_at desc")
		default:
			q = q.Order("priority asc, due_date asc NULLS LAST")
		}

		var tasks []models.Task
		if err := q.Find(&tasks).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

// CreateTaskHandler creates a task inside one of the caller's projects.
func CreateTaskHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var in taskCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Verify project belongs to user
		var project models.Project
		if err := db.Where("id = ? AND user_id = ?", in.ProjectID, user.ID).First(&project).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		task := models.Task{
			UserID:      user.ID,
			ProjectID:   in.ProjectID,
			Title:       in.Title,
			Description: in.Description,
			Status:      models.TaskStatusBacklog,
			Priority:    models.PriorityP2,
		}
		if in.Status != "" {
			task.Status = in.Status
		}
		if in.Priority != "" {
			task.Priority = in.Priority
		}
		if in.DueDate != nil {
			due, err := parseDueDate(*in.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate"})
				return
			}
			task.DueDate = due
		}

		if err := db.Create(&task).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
			return
		}

		db.Preload("Project").First(&task, task.ID)
		c.JSON(http.StatusCreated, task)
	}
}

// GetTaskHandler returns one of the caller's tasks.
func GetTaskHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var task models.Task
		if err := db.Preload("Project").Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&task).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// UpdateTaskHandler applies a partial update. Moving a task to DONE stamps
// CompletedAt; moving it back out clears it.
func UpdateTaskHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var task models.Task
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&task).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		var in taskUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := map[string]interface{}{}
		if in.Title != nil {
			updates["title"] = *in.Title
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.Priority != nil {
			updates["priority"] = *in.Priority
		}
		if in.DueDate != nil {
			due, err := parseDueDate(*in.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate"})
				return
			}
			updates["due_date"] = due
		}
		if in.Status != nil {
			updates["status"] = *in.Status
			if *in.Status == models.TaskStatusDone && task.Status != models.TaskStatusDone {
				updates["completed_at"] = time.Now()
			} else if *in.Status != models.TaskStatusDone {
				updates["completed_at"] = nil
			}
		}

		if len(updates) > 0 {
			if err := db.Model(&task).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
				return
			}
		}

		db.Preload("Project").First(&task, task.ID)
		c.JSON(http.StatusOK, task)
	}
}

// DeleteTaskHandler soft-deletes one of the caller's tasks.
func DeleteTaskHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var task models.Task
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&task).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		if err := db.Delete(&task).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
