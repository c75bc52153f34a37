package handler

import (
	"time"

	"notekeeper/middleware"
	"notekeeper/repository"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthHandler is the public liveness probe.
func HealthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "OK",
		"message":   "notekeeper API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// StatsHandler reports per-user document counts plus process health.
func StatsHandler(c *gin.Context, notesService *usecase.NotesService, remindersService *usecase.RemindersService) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
		return
	}

	noteCount, err := notesService.Repo.CountByUser(c.Request.Context(), user.UserID, repository.ExcludeDeleted)
	if err != nil {
		utils.InternalError(c, "Failed to compute stats")
		return
	}
	reminderCount, err := remindersService.Repo.CountByUser(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to compute stats")
		return
	}

	utils.Success(c, gin.H{
		"notes":     noteCount,
		"reminders": reminderCount,
		"system": gin.H{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"cpu_percent":    utils.GetCPUUsage(),
			"memory_percent": utils.GetMemoryUsage(),
		},
	})
}
