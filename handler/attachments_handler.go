package handler

import (
	"log"
	"net/http"

	"notekeeper/middleware"
	"notekeeper/model"
	"notekeeper/services"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// UploadAttachmentsHandler accepts multipart files under the "files" field,
// runs them through the gatekeeper policy and embeds the accepted records in
// the note. Storage failures after validation are 500s, not client errors.
func UploadAttachmentsHandler(c *gin.Context, notesService *usecase.NotesService, store services.BlobStore, policy services.UploadPolicy) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequest(c, utils.CodeNoFile, "No files provided")
		return
	}
	files := form.File["files"]

	if err := policy.ValidateFiles(files); err != nil {
		if ue, ok := services.AsUploadError(err); ok {
			utils.Fail(c, http.StatusBadRequest, ue.Code, ue.Message)
			return
		}
		utils.BadRequest(c, "", err.Error())
		return
	}

	attachments := make([]model.Attachment, 0, len(files))
	for _, file := range files {
		att, err := policy.BuildAttachment(file, user.FirebaseUID)
		if err != nil {
			if ue, ok := services.AsUploadError(err); ok {
				utils.Fail(c, http.StatusBadRequest, ue.Code, ue.Message)
				return
			}
			utils.BadRequest(c, "", err.Error())
			return
		}

		url, err := store.Save(file, att.Filename)
		if err != nil {
			log.Printf("attachment store failed for %s: %v", att.Filename, err)
			utils.InternalError(c, "Failed to store file")
			return
		}
		att.URL = url
		attachments = append(attachments, *att)
	}

	if err := notesService.AddAttachments(c.Request.Context(), note, attachments); err != nil {
		utils.BadRequest(c, "", err.Error())
		return
	}
	utils.Created(c, attachments)
}

// DeleteAttachmentHandler removes an embedded attachment and its blob.
func DeleteAttachmentHandler(c *gin.Context, notesService *usecase.NotesService, store services.BlobStore) {
	note, ok := noteFromContext(c)
	if !ok {
		utils.InternalError(c, "Note not attached to request")
		return
	}

	attachmentID := c.Param("attachmentId")
	removed, err := notesService.RemoveAttachment(c.Request.Context(), note, attachmentID)
	if err != nil {
		utils.NotFound(c, "Attachment not found")
		return
	}

	if err := store.Remove(removed.Filename); err != nil {
		// The document update already succeeded; log and report success.
		log.Printf("failed to remove stored blob %s: %v", removed.Filename, err)
	}
	utils.SuccessMessage(c, "Attachment removed", nil)
}
