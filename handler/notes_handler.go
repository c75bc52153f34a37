package handler

import (
	"errors"

	"notekeeper/middleware"
	"notekeeper/model"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// noteFromContext returns the note loaded by the ownership gate.
func noteFromContext(c *gin.Context) (*model.Note, bool) {
	resource, ok := middleware.LoadedResource(c)
	if !ok {
		return nil, false
	}
	note, ok := resource.(*model.Note)
	return note, ok
}

func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	var note model.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		utils.BadRequest(c, "", "Invalid request body")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
		return
	}
	note.UserID = user.UserID
	note.FirebaseUID = user.FirebaseUID

	if err := notesService.Create(c.Request.Context(), &note); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Created(c, note)
}

func GetNoteHandler(c *gin.Context) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}
	utils.Success(c, note)
}

func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}

	var updates model.Note
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "", "Invalid request body")
		return
	}

	if err := notesService.Update(c.Request.Context(), note, &updates); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Success(c, note)
}

func GetUserNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	user, _ := middleware.CurrentUser(c)
	notes, err := notesService.ListByUser(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch notes")
		return
	}
	utils.Success(c, notes)
}

func SearchNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	user, _ := middleware.CurrentUser(c)
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "", "Query parameter q is required")
		return
	}
	includeDeleted := c.Query("include_deleted") == "true"

	notes, err := notesService.Search(c.Request.Context(), user.UserID, query, includeDeleted)
	if err != nil {
		utils.InternalError(c, "Search failed")
		return
	}
	utils.Success(c, notes)
}

func GetArchivedNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	user, _ := middleware.CurrentUser(c)
	notes, err := notesService.ListArchived(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch archived notes")
		return
	}
	utils.Success(c, notes)
}

func GetPinnedNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	user, _ := middleware.CurrentUser(c)
	notes, err := notesService.ListPinned(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch pinned notes")
		return
	}
	utils.Success(c, notes)
}

func GetFavoriteNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	user, _ := middleware.CurrentUser(c)
	notes, err := notesService.ListFavorites(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch favorite notes")
		return
	}
	utils.Success(c, notes)
}

func GetDeletedNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	user, _ := middleware.CurrentUser(c)
	notes, err := notesService.ListDeleted(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch deleted notes")
		return
	}
	utils.Success(c, notes)
}

func GetUserLabelsHandler(c *gin.Context, notesService *usecase.NotesService) {
	user, _ := middleware.CurrentUser(c)
	labels, err := notesService.Labels(c.Request.Context(), user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch labels")
		return
	}
	utils.Success(c, labels)
}

func TogglePinHandler(c *gin.Context, notesService *usecase.NotesService) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}
	if err := notesService.TogglePin(c.Request.Context(), note); err != nil {
		if errors.Is(err, usecase.ErrNotePinnedConflict) {
			utils.BadRequest(c, "", err.Error())
			return
		}
		utils.InternalError(c, "Failed to toggle pin")
		return
	}
	utils.Success(c, note)
}

func UpdatePinPositionHandler(c *gin.Context, notesService *usecase.NotesService) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}

	var body struct {
		Position int `json:"position"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, "", "Invalid request body")
		return
	}

	if err := notesService.SetPinnedPosition(c.Request.Context(), note, body.Position); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Success(c, note)
}

func ToggleArchiveHandler(c *gin.Context, notesService *usecase.NotesService) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}
	if err := notesService.ToggleArchive(c.Request.Context(), note); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Success(c, note)
}

func ToggleFavoriteHandler(c *gin.Context, notesService *usecase.NotesService) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}
	if err := notesService.ToggleFavorite(c.Request.Context(), note); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Success(c, note)
}

// DeleteNoteHandler soft-deletes by default; ?permanent=true purges a note
// that is already in the trash.
func DeleteNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}

	if c.Query("permanent") == "true" {
		if err := notesService.Purge(c.Request.Context(), note); err != nil {
			utils.BadRequest(c, "", err.Error())
			return
		}
		utils.SuccessMessage(c, "Note permanently deleted", nil)
		return
	}

	if err := notesService.SoftDelete(c.Request.Context(), note); err != nil {
		utils.InternalError(c, "Failed to delete note")
		return
	}
	utils.SuccessMessage(c, "Note moved to trash", nil)
}

func RestoreNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}
	if err := notesService.Restore(c.Request.Context(), note); err != nil {
		utils.InternalError(c, "Failed to restore note")
		return
	}
	utils.Success(c, note)
}
