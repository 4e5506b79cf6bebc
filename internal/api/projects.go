package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/models"
)

type projectCreate struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type projectUpdate struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Archived    *bool   `json:"archived"`
}

// ListProjectsHandler returns the caller's projects in creation order.
func ListProjectsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var projects []models.Project
		if err := db.Where("user_id = ?", user.ID).Order("created_at asc").Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

// CreateProjectHandler creates a project owned by the caller.
func CreateProjectHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var in projectCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		project := models.Project{
			UserID:      user.ID,
			Name:        in.Name,
			Description: in.Description,
		}
		if err := db.Create(&project).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
			return
		}
		c.JSON(http.StatusCreated, project)
	}
}

// UpdateProjectHandler updates name, description or archived state.
func UpdateProjectHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var project models.Project
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&project).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		var in projectUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.Archived != nil {
			updates["archived"] = *in.Archived
		}

		if len(updates) > 0 {
			if err := db.Model(&project).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
				return
			}
		}
		c.JSON(http.StatusOK, project)
	}
}

// DeleteProjectHandler soft-deletes a project and cascades to its tasks.
func DeleteProjectHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var project models.Project
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&project).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		if err := db.Select("Tasks").Delete(&project).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
