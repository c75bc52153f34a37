package model

import "time"

type NoteType string
type NoteCategory string
type AttachmentType string

const (
	NoteTypeNote    NoteType = "note"
	NoteTypeList    NoteType = "list"
	NoteTypeDrawing NoteType = "drawing"

	CategoryGeneral  NoteCategory = "general"
	CategoryWork     NoteCategory = "work"
	CategoryPersonal NoteCategory = "personal"
	CategoryIdeas    NoteCategory = "ideas"
	CategoryTasks    NoteCategory = "tasks"

	AttachmentImage    AttachmentType = "image"
	AttachmentDocument AttachmentType = "document"
	AttachmentAudio    AttachmentType = "audio"
)

type ListItem struct {
	ItemID      string `bson:"item_id" json:"item_id"`
	Text        string `bson:"text" json:"text"`
	IsCompleted bool   `bson:"is_completed" json:"is_completed"`
	Order       int    `bson:"order" json:"order"`
}

// Attachment lives embedded in its note; it has no lifecycle of its own.
type Attachment struct {
	AttachmentID string         `bson:"attachment_id" json:"attachment_id"`
	Filename     string         `bson:"filename" json:"filename"`
	OriginalName string         `bson:"original_name" json:"original_name"`
	Type         AttachmentType `bson:"type" json:"type"`
	MimeType     string         `bson:"mime_type" json:"mime_type"`
	Size         int64          `bson:"size" json:"size"`
	URL          string         `bson:"url" json:"url"`
	UploadedBy   string         `bson:"uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time      `bson:"uploaded_at" json:"uploaded_at"`
}

type Note struct {
	NoteID      string       `bson:"_id,omitempty" json:"id"`
	UserID      string       `bson:"user_id" json:"user_id"`
	FirebaseUID string       `bson:"firebase_uid" json:"firebase_uid"`
	Title       string       `bson:"title" json:"title" binding:"required"`
	Content     string       `bson:"content" json:"content"`
	Color       string       `bson:"color,omitempty" json:"color,omitempty" binding:"omitempty,hexcolor"`
	Type        NoteType     `bson:"type" json:"type" binding:"omitempty,oneof=note list drawing"`
	ListItems   []ListItem   `bson:"list_items,omitempty" json:"list_items,omitempty"`
	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Labels      []string     `bson:"labels,omitempty" json:"labels,omitempty"`
	Category    NoteCategory `bson:"category" json:"category" binding:"omitempty,oneof=general work personal ideas tasks"`

	IsPinned       bool       `bson:"is_pinned" json:"is_pinned"`
	PinnedPosition int        `bson:"pinned_position,omitempty" json:"pinned_position,omitempty"`
	IsArchived     bool       `bson:"is_archived" json:"is_archived"`
	IsFavorite     bool       `bson:"is_favorite" json:"is_favorite"`
	IsDeleted      bool       `bson:"is_deleted" json:"is_deleted"`
	DeletedAt      *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`

	// SearchText is derived from title, content, labels and list items on
	// every save; queries match against it case-insensitively.
	SearchText string `bson:"search_text" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// OwnerRefs satisfies the ownership check used by the middleware chain.
func (n *Note) OwnerRefs() (userID, firebaseUID string) {
	return n.UserID, n.FirebaseUID
}
