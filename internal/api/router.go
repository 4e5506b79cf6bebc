package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/digest"
	"github.com/taskflow/taskflow/internal/health"
)

// NewRouter assembles the HTTP surface: user-scoped CRUD, email audit,
// digest preview and the worker trigger.
func NewRouter(cfg *config.Config, db *gorm.DB, tasks digest.TaskStore, composer *digest.Composer, sender digest.Sender) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.GET("/health", gin.WrapF(health.Handler))

	authed := r.Group("/api", RequireUser(db))
	{
		authed.GET("/email-schedule", GetScheduleHandler(db))
		authed.PUT("/email-schedule", UpsertScheduleHandler(db))

		authed.GET("/projects", ListProjectsHandler(db))
		authed.POST("/projects", CreateProjectHandler(db))
		authed.PATCH("/projects/:id", UpdateProjectHandler(db))
		authed.DELETE("/projects/:id", DeleteProjectHandler(db))

		authed.GET("/tasks", ListTasksHandler(db))
		authed.POST("/tasks", CreateTaskHandler(db))
		authed.GET("/tasks/:id", GetTaskHandler(db))
		authed.PATCH("/tasks/:id", UpdateTaskHandler(db))
		authed.DELETE("/tasks/:id", DeleteTaskHandler(db))

		authed.GET("/email-logs", ListEmailLogsHandler(db))
		authed.POST("/test-email", TestEmailHandler(db, tasks, composer, sender))
	}

	r.POST("/api/worker/run", RequireCronSecret(cfg.CronSecret), TriggerWorkerHandler())

	return r
}
