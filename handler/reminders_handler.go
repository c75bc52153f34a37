package handler

import (
	"errors"

	"notekeeper/middleware"
	"notekeeper/model"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// reminderFromContext returns the reminder loaded by the ownership gate.
func reminderFromContext(c *gin.Context) (*model.Reminder, bool) {
	resource, ok := middleware.LoadedResource(c)
	if !ok {
		return nil, false
	}
	reminder, ok := resource.(*model.Reminder)
	return reminder, ok
}

func CreateReminderHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	var reminder model.Reminder
	if err := c.ShouldBindJSON(&reminder); err != nil {
		utils.BadRequest(c, "", "Invalid request body")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
		return
	}
	reminder.UserID = user.UserID
	reminder.FirebaseUID = user.FirebaseUID

	if err := remindersService.Create(c.Request.Context(), &reminder); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Created(c, reminder)
}

func GetReminderHandler(c *gin.Context) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}
	utils.Success(c, reminder)
}

func GetUserRemindersHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	user, _ := middleware.CurrentUser(c)
	reminders, err := remindersService.ListByUser(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch reminders")
		return
	}
	utils.Success(c, reminders)
}

func UpdateReminderHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}

	var updates model.Reminder
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "", "Invalid request body")
		return
	}

	if err := remindersService.Update(c.Request.Context(), reminder, &updates); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Success(c, reminder)
}

func DeleteReminderHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}
	if err := remindersService.Delete(c.Request.Context(), reminder.ReminderID); err != nil {
		utils.InternalError(c, "Failed to delete reminder")
		return
	}
	utils.SuccessMessage(c, "Reminder deleted", nil)
}

// CompleteReminderHandler marks the current occurrence done. Recurring
// reminders advance to the next occurrence in the same call.
func CompleteReminderHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}
	if err := remindersService.Complete(c.Request.Context(), reminder); err != nil {
		utils.InternalError(c, "Failed to complete reminder")
		return
	}
	utils.Success(c, reminder)
}

func SnoozeReminderHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}

	var body struct {
		Minutes int `json:"minutes"`
	}
	// Body is optional; an empty body means the default snooze.
	_ = c.ShouldBindJSON(&body)

	if err := remindersService.Snooze(c.Request.Context(), reminder, body.Minutes); err != nil {
		if errors.Is(err, usecase.ErrReminderInactive) {
			utils.BadRequest(c, "", err.Error())
			return
		}
		utils.InternalError(c, "Failed to snooze reminder")
		return
	}
	utils.Success(c, reminder)
}

func DismissReminderHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}
	if err := remindersService.Dismiss(c.Request.Context(), reminder); err != nil {
		utils.InternalError(c, "Failed to dismiss reminder")
		return
	}
	utils.Success(c, reminder)
}

func UpdateReminderPriorityHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}

	var body struct {
		Priority model.Priority `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, "", "Invalid request body")
		return
	}

	if err := remindersService.UpdatePriority(c.Request.Context(), reminder, body.Priority); err != nil {
		if errors.Is(err, usecase.ErrInvalidPriority) {
			utils.BadRequest(c, "", err.Error())
			return
		}
		utils.InternalError(c, "Failed to update priority")
		return
	}
	utils.Success(c, reminder)
}

func AddReminderTagHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}

	var body struct {
		Tag string `json:"tag" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, "", "Invalid request body")
		return
	}

	if err := remindersService.AddTag(c.Request.Context(), reminder, body.Tag); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Success(c, reminder)
}

func RemoveReminderTagHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}

	tag := c.Param("tag")
	if err := remindersService.RemoveTag(c.Request.Context(), reminder, tag); err != nil {
		utils.InternalError(c, "Failed to remove tag")
		return
	}
	utils.Success(c, reminder)
}

func ClearReminderRecurrenceHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, ok := reminderFromContext(c)
	if !ok {
		utils.InternalError(c, "Reminder not attached to request")
		return
	}
	if err := remindersService.ClearRecurrence(c.Request.Context(), reminder); err != nil {
		utils.InternalError(c, "Failed to clear recurrence")
		return
	}
	utils.Success(c, reminder)
}

// GetDueRemindersHandler feeds the notification collaborator; restricted to
// operational roles via the role gate wired in main.
func GetDueRemindersHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminders, err := remindersService.ListDue(c.Request.Context())
	if err != nil {
		utils.InternalError(c, "Failed to fetch due reminders")
		return
	}
	utils.Success(c, reminders)
}

// MarkNotificationSentHandler records the delivery hand-off for a due
// reminder. Loads by id directly since the caller is the notifier, not the
// owner.
func MarkNotificationSentHandler(c *gin.Context, remindersService *usecase.RemindersService) {
	reminder, err := remindersService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Reminder not found")
		return
	}
	if err := remindersService.MarkNotificationSent(c.Request.Context(), reminder); err != nil {
		utils.InternalError(c, "Failed to update reminder")
		return
	}
	utils.SuccessMessage(c, "Notification recorded", reminder)
}
