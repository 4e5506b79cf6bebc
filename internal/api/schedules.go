package api

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaptinlin/jsonschema"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/models"
)

//go:embed schemas/email_schedule.schema.json
var scheduleSchemaData []byte

var scheduleSchema = mustCompileSchema(scheduleSchemaData)

func mustCompileSchema(data []byte) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(data)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return schema
}

// validateSchedulePayload validates the raw upsert payload against the
// JSON Schema. Cross-field rules (dayOfWeek required for WEEKLY) live in
// the schema; timezone loadability is checked separately because it needs
// the tzdata database.
func validateSchedulePayload(payload map[string]interface{}) error {
	result := scheduleSchema.Validate(payload)
	if !result.IsValid() {
		var errorMessages []string
		for field, evalErr := range result.Errors {
			errorMessages = append(errorMessages, fmt.Sprintf("%s: %s", field, evalErr.Error()))
		}
		return fmt.Errorf("schedule validation failed: %s", strings.Join(errorMessages, "; "))
	}

	if tz, ok := payload["timezone"].(string); ok {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("schedule validation failed: timezone: unknown IANA name %q", tz)
		}
	}

	return nil
}

type scheduleUpsert struct {
	Enabled             *bool    `json:"enabled"`
	Cadence             *string  `json:"cadence"`
	DayOfWeek           *int     `json:"dayOfWeek"`
	TimeOfDay           *string  `json:"timeOfDay"`
	Timezone            *string  `json:"timezone"`
	IncludeProjectIDs   []uint   `json:"includeProjectIds"`
	OutstandingStatuses []string `json:"outstandingStatuses"`
}

// GetScheduleHandler returns the caller's email schedule, or null when the
// user has never configured one.
func GetScheduleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var schedule models.EmailSchedule
		if err := db.Where("user_id = ?", user.ID).First(&schedule).Error; err != nil {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusOK, schedule)
	}
}

// UpsertScheduleHandler creates or updates the caller's email schedule.
// The payload is validated against the embedded JSON Schema before any
// field is applied; the stored shape is therefore always well-formed and
// the evaluator never sees a WEEKLY schedule without a day of week.
func UpsertScheduleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var raw map[string]interface{}
		if err := c.ShouldBindJSON(&raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		if err := validateSchedulePayload(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Re-decode through the typed struct now that the shape is known good.
		data, _ := json.Marshal(raw)
		var in scheduleUpsert
		if err := json.Unmarshal(data, &in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}

		var schedule models.EmailSchedule
		err := db.Where("user_id = ?", user.ID).First(&schedule).Error
		created := err != nil

		if created {
			schedule = models.EmailSchedule{
				UserID:              user.ID,
				Enabled:             false,
				Cadence:             models.CadenceDaily,
				TimeOfDay:           "08:00",
				Timezone:            user.Timezone,
				IncludeProjectIDs:   datatypes.JSON([]byte(`[]`)),
				OutstandingStatuses: mustJSON(models.DefaultOutstandingStatuses),
			}
		}

		if in.Enabled != nil {
			schedule.Enabled = *in.Enabled
		}
		if in.Cadence != nil {
			schedule.Cadence = *in.Cadence
		}
		if _, present := raw["dayOfWeek"]; present {
			schedule.DayOfWeek = in.DayOfWeek
		}
		if in.TimeOfDay != nil {
			schedule.TimeOfDay = *in.TimeOfDay
		}
		if in.Timezone != nil {
			schedule.Timezone = *in.Timezone
		}
		if _, present := raw["includeProjectIds"]; present {
			schedule.IncludeProjectIDs = mustJSON(in.IncludeProjectIDs)
		}
		if _, present := raw["outstandingStatuses"]; present {
			schedule.OutstandingStatuses = mustJSON(in.OutstandingStatuses)
		}

		if err := db.Save(&schedule).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save schedule"})
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, schedule)
	}
}

func mustJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON([]byte(`[]`))
	}
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte(`[]`))
	}
	return datatypes.JSON(data)
}
