package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"notekeeper/model"
	"notekeeper/repository"

	"github.com/google/uuid"
)

var (
	ErrNotePinnedConflict = errors.New("archived or deleted notes cannot be pinned")
	ErrNoteDeleted        = errors.New("note is deleted")
)

type NotesService struct {
	Repo *repository.NotesRepo

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewNotesService(repo *repository.NotesRepo) *NotesService {
	return &NotesService{Repo: repo, Now: time.Now}
}

func (svc *NotesService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

// BuildSearchText concatenates title, content, labels and list-item text into
// the lowercased blob queries match against.
func BuildSearchText(n *model.Note) string {
	parts := make([]string, 0, 2+len(n.Labels)+len(n.ListItems))
	parts = append(parts, n.Title, n.Content)
	parts = append(parts, n.Labels...)
	for _, item := range n.ListItems {
		parts = append(parts, item.Text)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// NormalizeNote runs before every save. It recomputes the derived search
// text and enforces the flag invariants: a deleted or archived note is never
// pinned, and the deletion tombstone matches the deleted flag.
func NormalizeNote(n *model.Note, now time.Time) {
	if n.Type == "" {
		n.Type = model.NoteTypeNote
	}
	if n.Category == "" {
		n.Category = model.CategoryGeneral
	}

	if n.IsArchived || n.IsDeleted {
		n.IsPinned = false
		n.PinnedPosition = 0
	}
	if n.IsDeleted && n.DeletedAt == nil {
		deletedAt := now
		n.DeletedAt = &deletedAt
	}
	if !n.IsDeleted {
		n.DeletedAt = nil
	}

	n.SearchText = BuildSearchText(n)
	n.UpdatedAt = now
}

func (svc *NotesService) Create(ctx context.Context, note *model.Note) error {
	if note.UserID == "" {
		return errors.New("user ID is required")
	}
	if note.Title == "" {
		return errors.New("title is required")
	}

	now := svc.now()
	if note.NoteID == "" {
		note.NoteID = uuid.New().String()
	}
	for i := range note.ListItems {
		if note.ListItems[i].ItemID == "" {
			note.ListItems[i].ItemID = uuid.New().String()
		}
	}
	note.IsDeleted = false
	note.DeletedAt = nil
	note.CreatedAt = now

	NormalizeNote(note, now)
	return svc.Repo.Insert(ctx, note)
}

func (svc *NotesService) Get(ctx context.Context, noteID string, visibility repository.DeleteVisibility) (*model.Note, error) {
	return svc.Repo.FindByID(ctx, noteID, visibility)
}

// Update applies caller-editable fields and re-normalizes before saving.
func (svc *NotesService) Update(ctx context.Context, existing *model.Note, updates *model.Note) error {
	if existing.IsDeleted {
		return ErrNoteDeleted
	}

	if updates.Title != "" {
		existing.Title = updates.Title
	}
	if updates.Content != "" {
		existing.Content = updates.Content
	}
	if updates.Color != "" {
		existing.Color = updates.Color
	}
	if updates.Type != "" {
		existing.Type = updates.Type
	}
	if updates.Category != "" {
		existing.Category = updates.Category
	}
	if updates.Labels != nil {
		existing.Labels = updates.Labels
	}
	if updates.ListItems != nil {
		for i := range updates.ListItems {
			if updates.ListItems[i].ItemID == "" {
				updates.ListItems[i].ItemID = uuid.New().String()
			}
		}
		existing.ListItems = updates.ListItems
	}

	NormalizeNote(existing, svc.now())
	return svc.Repo.Replace(ctx, existing)
}

// ListByUser returns the user's live notes, pinned first.
func (svc *NotesService) ListByUser(ctx context.Context, userID string) ([]*model.Note, error) {
	return svc.Repo.FindByUser(ctx, userID, repository.ExcludeDeleted)
}

func (svc *NotesService) ListArchived(ctx context.Context, userID string) ([]*model.Note, error) {
	return svc.Repo.FindArchived(ctx, userID)
}

func (svc *NotesService) ListPinned(ctx context.Context, userID string) ([]*model.Note, error) {
	return svc.Repo.FindPinned(ctx, userID)
}

func (svc *NotesService) ListFavorites(ctx context.Context, userID string) ([]*model.Note, error) {
	return svc.Repo.FindFavorites(ctx, userID)
}

func (svc *NotesService) ListDeleted(ctx context.Context, userID string) ([]*model.Note, error) {
	return svc.Repo.FindDeleted(ctx, userID)
}

func (svc *NotesService) Search(ctx context.Context, userID, query string, includeDeleted bool) ([]*model.Note, error) {
	visibility := repository.ExcludeDeleted
	if includeDeleted {
		visibility = repository.IncludeDeleted
	}
	return svc.Repo.Search(ctx, userID, query, visibility)
}

func (svc *NotesService) Labels(ctx context.Context, userID string) ([]string, error) {
	return svc.Repo.Labels(ctx, userID)
}

// TogglePin flips the pinned flag. Archived and deleted notes cannot be
// pinned.
func (svc *NotesService) TogglePin(ctx context.Context, note *model.Note) error {
	if !note.IsPinned && (note.IsArchived || note.IsDeleted) {
		return ErrNotePinnedConflict
	}
	note.IsPinned = !note.IsPinned
	if !note.IsPinned {
		note.PinnedPosition = 0
	}
	NormalizeNote(note, svc.now())
	return svc.Repo.Replace(ctx, note)
}

func (svc *NotesService) SetPinnedPosition(ctx context.Context, note *model.Note, position int) error {
	if !note.IsPinned {
		return errors.New("note is not pinned")
	}
	if position < 0 {
		return errors.New("position must be non-negative")
	}
	note.PinnedPosition = position
	NormalizeNote(note, svc.now())
	return svc.Repo.Replace(ctx, note)
}

// ToggleArchive flips the archived flag; archiving unpins via normalization.
func (svc *NotesService) ToggleArchive(ctx context.Context, note *model.Note) error {
	if note.IsDeleted {
		return ErrNoteDeleted
	}
	note.IsArchived = !note.IsArchived
	NormalizeNote(note, svc.now())
	return svc.Repo.Replace(ctx, note)
}

func (svc *NotesService) ToggleFavorite(ctx context.Context, note *model.Note) error {
	if note.IsDeleted {
		return ErrNoteDeleted
	}
	note.IsFavorite = !note.IsFavorite
	NormalizeNote(note, svc.now())
	return svc.Repo.Replace(ctx, note)
}

// SoftDelete tombstones the note; it disappears from default reads but stays
// recoverable until purged.
func (svc *NotesService) SoftDelete(ctx context.Context, note *model.Note) error {
	note.IsDeleted = true
	NormalizeNote(note, svc.now())
	return svc.Repo.Replace(ctx, note)
}

func (svc *NotesService) Restore(ctx context.Context, note *model.Note) error {
	note.IsDeleted = false
	NormalizeNote(note, svc.now())
	return svc.Repo.Replace(ctx, note)
}

// Purge removes a soft-deleted note permanently.
func (svc *NotesService) Purge(ctx context.Context, note *model.Note) error {
	if !note.IsDeleted {
		return errors.New("only deleted notes can be purged")
	}
	return svc.Repo.HardDelete(ctx, note.NoteID)
}

// AddAttachments embeds validated attachments into the note.
func (svc *NotesService) AddAttachments(ctx context.Context, note *model.Note, attachments []model.Attachment) error {
	if note.IsDeleted {
		return ErrNoteDeleted
	}
	note.Attachments = append(note.Attachments, attachments...)
	NormalizeNote(note, svc.now())
	return svc.Repo.Replace(ctx, note)
}

// RemoveAttachment detaches by id and reports the removed record so the
// caller can delete the stored blob.
func (svc *NotesService) RemoveAttachment(ctx context.Context, note *model.Note, attachmentID string) (*model.Attachment, error) {
	idx := -1
	for i := range note.Attachments {
		if note.Attachments[i].AttachmentID == attachmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	removed := note.Attachments[idx]
	note.Attachments = append(note.Attachments[:idx], note.Attachments[idx+1:]...)
	NormalizeNote(note, svc.now())
	if err := svc.Repo.Replace(ctx, note); err != nil {
		return nil, err
	}
	return &removed, nil
}
