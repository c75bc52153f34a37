package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notekeeper/model"
	"notekeeper/repository"
	"notekeeper/utils"

	"github.com/google/uuid"
)

var (
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidRecurrence = errors.New("invalid recurrence pattern")
	ErrReminderInactive  = errors.New("reminder is no longer active")
)

type RemindersService struct {
	Repo *repository.RemindersRepo

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewRemindersService(repo *repository.RemindersRepo) *RemindersService {
	return &RemindersService{Repo: repo, Now: time.Now}
}

func (svc *RemindersService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

// --- pure transition functions ---------------------------------------------
//
// These are the only writers of the reminder's state flags. Every transition
// clears an expired snooze before doing anything else, and every write path
// runs NormalizeReminder before persisting, so flag combinations outside the
// {pending, snoozed, completed, dismissed, inactive} states are unreachable.

// ClearExpiredSnooze drops a snooze whose deadline has passed.
func ClearExpiredSnooze(r *model.Reminder, now time.Time) {
	if r.IsSnoozed && (r.SnoozeUntil == nil || !now.Before(*r.SnoozeUntil)) {
		r.IsSnoozed = false
		r.SnoozeUntil = nil
	}
}

// MarkCompleted completes the current occurrence. For recurring reminders it
// records the occurrence and advances to the next one; once the reminder is
// inactive the call is a no-op.
func MarkCompleted(r *model.Reminder, now time.Time) {
	if !r.IsActive {
		return
	}
	ClearExpiredSnooze(r, now)

	r.IsCompleted = true
	completedAt := now
	r.CompletedAt = &completedAt
	r.IsSnoozed = false
	r.SnoozeUntil = nil

	if r.IsRecurring && r.Recurrence != nil {
		r.Occurrences = append(r.Occurrences, model.Occurrence{
			ScheduledFor: r.RemindAt,
			CompletedAt:  &completedAt,
		})
		scheduleNextOccurrence(r, now)
	}
}

// SnoozeReminder pushes the pending occurrence out by the given number of
// minutes (default 10).
func SnoozeReminder(r *model.Reminder, minutes int, now time.Time) error {
	ClearExpiredSnooze(r, now)
	if !r.IsActive || r.IsCompleted {
		return ErrReminderInactive
	}
	if minutes <= 0 {
		minutes = 10
	}
	until := now.Add(time.Duration(minutes) * time.Minute)
	r.IsSnoozed = true
	r.SnoozeUntil = &until
	return nil
}

// DismissReminder skips the pending occurrence. Recurring reminders advance
// to the next occurrence; non-recurring ones are deactivated permanently.
func DismissReminder(r *model.Reminder, now time.Time) {
	if !r.IsActive {
		return
	}
	ClearExpiredSnooze(r, now)
	r.IsSnoozed = false
	r.SnoozeUntil = nil

	if r.IsRecurring && r.Recurrence != nil {
		r.Occurrences = append(r.Occurrences, model.Occurrence{
			ScheduledFor: r.RemindAt,
			Skipped:      true,
		})
		scheduleNextOccurrence(r, now)
		return
	}

	r.IsActive = false
	r.IsDismissed = true
}

// scheduleNextOccurrence enforces the end conditions, then advances the
// reminder to its next firing and resets it to the pending state.
func scheduleNextOccurrence(r *model.Reminder, now time.Time) {
	rec := r.Recurrence
	if rec == nil {
		return
	}

	if rec.EndDate != nil && now.After(*rec.EndDate) {
		r.IsActive = false
		utils.TrackReminderTransition("deactivate")
		return
	}
	if rec.MaxOccurrences > 0 && len(r.Occurrences) >= rec.MaxOccurrences {
		r.IsActive = false
		utils.TrackReminderTransition("deactivate")
		return
	}

	r.RemindAt = ComputeNextTrigger(rec, r.RemindAt)
	r.IsCompleted = false
	r.CompletedAt = nil
	r.NotificationSent = false
}

// NormalizeReminder runs before every save and keeps next_trigger consistent
// with the recurrence flags: non-recurring reminders trigger at remind_at;
// recurring pending ones derive the following occurrence from the pattern.
func NormalizeReminder(r *model.Reminder, now time.Time) {
	ClearExpiredSnooze(r, now)

	if r.IsRecurring && r.Recurrence != nil && r.IsActive && !r.IsCompleted {
		r.NextTrigger = ComputeNextTrigger(r.Recurrence, r.RemindAt)
	} else {
		r.NextTrigger = r.RemindAt
	}
	r.UpdatedAt = now
}

// --- service methods --------------------------------------------------------

func (svc *RemindersService) Create(ctx context.Context, reminder *model.Reminder) error {
	if reminder.UserID == "" {
		return errors.New("user ID is required")
	}
	if reminder.Title == "" {
		return errors.New("title is required")
	}
	if reminder.RemindAt.IsZero() {
		return errors.New("remind_at is required")
	}

	if reminder.Priority == "" {
		reminder.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(reminder.Priority) {
		return ErrInvalidPriority
	}
	if reminder.Category == "" {
		reminder.Category = model.ReminderGeneral
	}

	validTags, err := validateTags(reminder.Tags)
	if err != nil {
		return err
	}
	reminder.Tags = validTags

	if reminder.IsRecurring {
		if err := validateRecurrence(reminder.Recurrence); err != nil {
			return err
		}
	} else {
		reminder.Recurrence = nil
	}

	now := svc.now()
	if reminder.ReminderID == "" {
		reminder.ReminderID = uuid.New().String()
	}
	reminder.IsActive = true
	reminder.IsCompleted = false
	reminder.CompletedAt = nil
	reminder.IsDismissed = false
	reminder.NotificationSent = false
	reminder.CreatedAt = now

	NormalizeReminder(reminder, now)
	return svc.Repo.Insert(ctx, reminder)
}

func (svc *RemindersService) Get(ctx context.Context, reminderID string) (*model.Reminder, error) {
	return svc.Repo.FindByID(ctx, reminderID)
}

func (svc *RemindersService) ListByUser(ctx context.Context, userID string) ([]*model.Reminder, error) {
	return svc.Repo.FindByUser(ctx, userID)
}

func (svc *RemindersService) ListDue(ctx context.Context) ([]*model.Reminder, error) {
	return svc.Repo.FindDueForNotification(ctx, svc.now())
}

// Update applies caller-editable fields and re-normalizes before saving.
func (svc *RemindersService) Update(ctx context.Context, existing *model.Reminder, updates *model.Reminder) error {
	if updates.Title != "" {
		existing.Title = updates.Title
	}
	if updates.Description != "" {
		existing.Description = updates.Description
	}
	if !updates.RemindAt.IsZero() {
		existing.RemindAt = updates.RemindAt
	}
	if updates.Timezone != "" {
		existing.Timezone = updates.Timezone
	}
	if updates.Priority != "" {
		if !model.ValidPriority(updates.Priority) {
			return ErrInvalidPriority
		}
		existing.Priority = updates.Priority
	}
	if updates.Category != "" {
		existing.Category = updates.Category
	}
	if updates.Tags != nil {
		validTags, err := validateTags(updates.Tags)
		if err != nil {
			return err
		}
		existing.Tags = validTags
	}
	if updates.NotificationMethods != nil {
		existing.NotificationMethods = updates.NotificationMethods
	}
	if updates.Location != nil {
		existing.Location = updates.Location
	}
	if updates.NoteID != "" {
		existing.NoteID = updates.NoteID
	}

	// A JSON false is indistinguishable from an omitted field here, so
	// Update never clears recurrence; ClearRecurrence does that explicitly.
	if updates.Recurrence != nil {
		if err := validateRecurrence(updates.Recurrence); err != nil {
			return err
		}
		existing.IsRecurring = true
		existing.Recurrence = updates.Recurrence
	}

	NormalizeReminder(existing, svc.now())
	return svc.Repo.Replace(ctx, existing)
}

// ClearRecurrence turns a recurring reminder back into a one-shot.
func (svc *RemindersService) ClearRecurrence(ctx context.Context, reminder *model.Reminder) error {
	reminder.IsRecurring = false
	reminder.Recurrence = nil
	NormalizeReminder(reminder, svc.now())
	return svc.Repo.Replace(ctx, reminder)
}

func (svc *RemindersService) Complete(ctx context.Context, reminder *model.Reminder) error {
	now := svc.now()
	MarkCompleted(reminder, now)
	utils.TrackReminderTransition("complete")
	NormalizeReminder(reminder, now)
	return svc.Repo.Replace(ctx, reminder)
}

func (svc *RemindersService) Snooze(ctx context.Context, reminder *model.Reminder, minutes int) error {
	now := svc.now()
	if err := SnoozeReminder(reminder, minutes, now); err != nil {
		return err
	}
	utils.TrackReminderTransition("snooze")
	NormalizeReminder(reminder, now)
	return svc.Repo.Replace(ctx, reminder)
}

func (svc *RemindersService) Dismiss(ctx context.Context, reminder *model.Reminder) error {
	now := svc.now()
	DismissReminder(reminder, now)
	utils.TrackReminderTransition("dismiss")
	NormalizeReminder(reminder, now)
	return svc.Repo.Replace(ctx, reminder)
}

// MarkNotificationSent is called by the notification collaborator once a due
// reminder has been handed off for delivery.
func (svc *RemindersService) MarkNotificationSent(ctx context.Context, reminder *model.Reminder) error {
	now := svc.now()
	reminder.NotificationSent = true
	reminder.LastTriggered = &now
	NormalizeReminder(reminder, now)
	return svc.Repo.Replace(ctx, reminder)
}

func (svc *RemindersService) UpdatePriority(ctx context.Context, reminder *model.Reminder, priority model.Priority) error {
	if !model.ValidPriority(priority) {
		return ErrInvalidPriority
	}
	reminder.Priority = priority
	NormalizeReminder(reminder, svc.now())
	return svc.Repo.Replace(ctx, reminder)
}

// AddTag is idempotent: adding a tag the reminder already has is a no-op.
func (svc *RemindersService) AddTag(ctx context.Context, reminder *model.Reminder, tag string) error {
	if tag == "" {
		return errors.New("tag cannot be empty")
	}
	for _, t := range reminder.Tags {
		if t == tag {
			return nil
		}
	}
	tags, err := validateTags(append(reminder.Tags, tag))
	if err != nil {
		return err
	}
	reminder.Tags = tags
	NormalizeReminder(reminder, svc.now())
	return svc.Repo.Replace(ctx, reminder)
}

// RemoveTag is idempotent: removing an absent tag is a no-op.
func (svc *RemindersService) RemoveTag(ctx context.Context, reminder *model.Reminder, tag string) error {
	idx := -1
	for i, t := range reminder.Tags {
		if t == tag {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	reminder.Tags = append(reminder.Tags[:idx], reminder.Tags[idx+1:]...)
	NormalizeReminder(reminder, svc.now())
	return svc.Repo.Replace(ctx, reminder)
}

func (svc *RemindersService) Delete(ctx context.Context, reminderID string) error {
	return svc.Repo.Delete(ctx, reminderID)
}

func validateRecurrence(rec *model.Recurrence) error {
	if rec == nil {
		return fmt.Errorf("%w: recurring reminders need a pattern", ErrInvalidRecurrence)
	}
	switch rec.Frequency {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly,
		model.FrequencyYearly, model.FrequencyCustom:
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, rec.Frequency)
	}
	if rec.Interval < 0 {
		return fmt.Errorf("%w: interval must be at least 1", ErrInvalidRecurrence)
	}
	// An omitted interval means every occurrence of the frequency.
	if rec.Interval == 0 {
		rec.Interval = 1
	}
	if rec.DayOfMonth < 0 || rec.DayOfMonth > 31 {
		return fmt.Errorf("%w: day of month out of range", ErrInvalidRecurrence)
	}
	return nil
}

func validateTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	var validTags []string
	for _, tag := range tags {
		if tag != "" {
			validTags = append(validTags, tag)
		}
	}
	if len(validTags) > 10 {
		return nil, errors.New("cannot exceed 10 tags per reminder")
	}
	for _, tag := range validTags {
		if len(tag) > 30 {
			return nil, errors.New("tag cannot exceed 30 characters")
		}
	}
	return validTags, nil
}
