package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"notekeeper/model"
	"notekeeper/utils"

	"github.com/google/uuid"
)

const (
	MaxFileSize     = 10 << 20 // 10 MiB per file
	MaxFilesPerNote = 5
)

// UploadError carries the response code for a rejected file so handlers can
// map it straight into the error envelope.
type UploadError struct {
	Code    string
	Message string
}

func (e *UploadError) Error() string { return e.Message }

var (
	ErrNoFile = &UploadError{Code: utils.CodeNoFile, Message: "No file provided"}

	ErrTooManyFiles = &UploadError{
		Code:    utils.CodeTooManyFiles,
		Message: fmt.Sprintf("At most %d files per request", MaxFilesPerNote),
	}
)

// mimeTypes maps every accepted MIME type to its canonical extension and
// attachment kind. Anything outside this table is rejected regardless of
// endpoint.
var mimeTypes = map[string]struct {
	Ext  string
	Type model.AttachmentType
}{
	"image/jpeg":         {".jpg", model.AttachmentImage},
	"image/png":          {".png", model.AttachmentImage},
	"image/gif":          {".gif", model.AttachmentImage},
	"image/webp":         {".webp", model.AttachmentImage},
	"audio/mpeg":         {".mp3", model.AttachmentAudio},
	"audio/wav":          {".wav", model.AttachmentAudio},
	"audio/ogg":          {".ogg", model.AttachmentAudio},
	"audio/mp4":          {".m4a", model.AttachmentAudio},
	"application/pdf":    {".pdf", model.AttachmentDocument},
	"application/msword": {".doc", model.AttachmentDocument},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx", model.AttachmentDocument},
	"text/plain": {".txt", model.AttachmentDocument},
}

// UploadPolicy restricts which attachment kinds an endpoint accepts.
type UploadPolicy struct {
	Allowed  []model.AttachmentType
	MaxFiles int
}

func PolicyAny() UploadPolicy {
	return UploadPolicy{
		Allowed:  []model.AttachmentType{model.AttachmentImage, model.AttachmentDocument, model.AttachmentAudio},
		MaxFiles: MaxFilesPerNote,
	}
}

func PolicyImagesOnly() UploadPolicy {
	return UploadPolicy{Allowed: []model.AttachmentType{model.AttachmentImage}, MaxFiles: MaxFilesPerNote}
}

func PolicyAudioOnly() UploadPolicy {
	return UploadPolicy{Allowed: []model.AttachmentType{model.AttachmentAudio}, MaxFiles: 1}
}

func PolicyDocumentsOnly() UploadPolicy {
	return UploadPolicy{Allowed: []model.AttachmentType{model.AttachmentDocument}, MaxFiles: MaxFilesPerNote}
}

func (p UploadPolicy) allows(t model.AttachmentType) bool {
	for _, a := range p.Allowed {
		if a == t {
			return true
		}
	}
	return false
}

// ValidateFiles applies the global caps and the policy's allow-list to an
// incoming batch. It fails fast on the first violation.
func (p UploadPolicy) ValidateFiles(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return ErrNoFile
	}
	maxFiles := p.MaxFiles
	if maxFiles == 0 {
		maxFiles = MaxFilesPerNote
	}
	if len(files) > maxFiles {
		utils.TrackUpload("rejected", "batch")
		return ErrTooManyFiles
	}

	for _, file := range files {
		if err := p.validateOne(file); err != nil {
			return err
		}
	}
	return nil
}

func (p UploadPolicy) validateOne(file *multipart.FileHeader) error {
	mimeType := file.Header.Get("Content-Type")
	entry, known := mimeTypes[mimeType]
	if !known {
		utils.TrackUpload("rejected", "unknown")
		return &UploadError{
			Code:    utils.CodeInvalidFileType,
			Message: fmt.Sprintf("File type %q is not allowed", mimeType),
		}
	}
	if !p.allows(entry.Type) {
		utils.TrackUpload("rejected", string(entry.Type))
		return &UploadError{
			Code:    utils.CodeUnexpectedFile,
			Message: fmt.Sprintf("%s files are not accepted by this endpoint", entry.Type),
		}
	}
	if file.Size > MaxFileSize {
		utils.TrackUpload("rejected", string(entry.Type))
		return &UploadError{
			Code:    utils.CodeFileTooLarge,
			Message: fmt.Sprintf("File %q exceeds the %d MiB limit", file.Filename, MaxFileSize>>20),
		}
	}
	return nil
}

// GenerateStoredFilename builds a collision-resistant name from the original
// stem, the upload time and a random token, keeping the original extension.
func GenerateStoredFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	stem = sanitizeStem(stem)
	token := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("%s-%d-%s%s", stem, time.Now().UnixMilli(), token, ext)
}

func sanitizeStem(stem string) string {
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// BuildAttachment validates a single file against the policy and returns the
// attachment record to embed in the note, annotated with the uploader.
func (p UploadPolicy) BuildAttachment(file *multipart.FileHeader, uploaderUID string) (*model.Attachment, error) {
	if file == nil {
		return nil, ErrNoFile
	}
	if err := p.validateOne(file); err != nil {
		return nil, err
	}

	mimeType := file.Header.Get("Content-Type")
	entry := mimeTypes[mimeType]

	att := &model.Attachment{
		AttachmentID: uuid.New().String(),
		Filename:     GenerateStoredFilename(file.Filename),
		OriginalName: filepath.Base(file.Filename),
		Type:         entry.Type,
		MimeType:     mimeType,
		Size:         file.Size,
		UploadedBy:   uploaderUID,
		UploadedAt:   time.Now(),
	}
	utils.TrackUpload("accepted", string(entry.Type))
	return att, nil
}

// AsUploadError unwraps err into an UploadError when possible.
func AsUploadError(err error) (*UploadError, bool) {
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
