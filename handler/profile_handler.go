package handler

import (
	"notekeeper/middleware"
	"notekeeper/model"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// GetProfileHandler returns the authenticated user's record.
func GetProfileHandler(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
		return
	}
	utils.Success(c, gin.H{"user": user})
}

// UpdatePreferencesHandler replaces the user's preference bag.
func UpdatePreferencesHandler(c *gin.Context, userService *usecase.UserService) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
		return
	}

	var prefs model.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		utils.BadRequest(c, "", "Invalid request body")
		return
	}

	if err := userService.UpdatePreferences(c.Request.Context(), user.UserID, prefs); err != nil {
		utils.InternalError(c, "Failed to update preferences")
		return
	}
	utils.SuccessMessage(c, "Preferences updated", prefs)
}

// DeactivateAccountHandler soft-disables the account. There is no hard
// delete; documents stay owned by the disabled account.
func DeactivateAccountHandler(c *gin.Context, userService *usecase.UserService) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
		return
	}

	if err := userService.Deactivate(c.Request.Context(), user.UserID); err != nil {
		utils.InternalError(c, "Failed to deactivate account")
		return
	}
	utils.SuccessMessage(c, "Account deactivated", nil)
}
