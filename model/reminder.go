package model

import "time"

type Priority string
type ReminderCategory string
type Frequency string
type ReminderState string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"

	ReminderGeneral  ReminderCategory = "general"
	ReminderWork     ReminderCategory = "work"
	ReminderPersonal ReminderCategory = "personal"
	ReminderHealth   ReminderCategory = "health"
	ReminderFinance  ReminderCategory = "finance"

	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyCustom  Frequency = "custom"

	StatePending   ReminderState = "pending"
	StateSnoozed   ReminderState = "snoozed"
	StateCompleted ReminderState = "completed"
	StateDismissed ReminderState = "dismissed"
	StateInactive  ReminderState = "inactive"
)

// ValidPriority reports whether p is a member of the priority enum.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Recurrence is the rule set governing how a reminder repeats.
type Recurrence struct {
	Frequency      Frequency      `bson:"frequency" json:"frequency" binding:"omitempty,oneof=daily weekly monthly yearly custom"`
	Interval       int            `bson:"interval" json:"interval" binding:"omitempty,min=1"`
	DaysOfWeek     []time.Weekday `bson:"days_of_week,omitempty" json:"days_of_week,omitempty"`
	DayOfMonth     int            `bson:"day_of_month,omitempty" json:"day_of_month,omitempty"`
	EndDate        *time.Time     `bson:"end_date,omitempty" json:"end_date,omitempty"`
	MaxOccurrences int            `bson:"max_occurrences,omitempty" json:"max_occurrences,omitempty"`
}

// Occurrence records one concrete firing of a recurring reminder.
type Occurrence struct {
	ScheduledFor time.Time  `bson:"scheduled_for" json:"scheduled_for"`
	CompletedAt  *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Skipped      bool       `bson:"skipped" json:"skipped"`
	Note         string     `bson:"note,omitempty" json:"note,omitempty"`
}

type Geofence struct {
	Name    string  `bson:"name,omitempty" json:"name,omitempty"`
	Address string  `bson:"address,omitempty" json:"address,omitempty"`
	Lat     float64 `bson:"lat" json:"lat"`
	Lon     float64 `bson:"lon" json:"lon"`
	Radius  float64 `bson:"radius" json:"radius"`
}

type Reminder struct {
	ReminderID  string `bson:"_id,omitempty" json:"id"`
	UserID      string `bson:"user_id" json:"user_id"`
	FirebaseUID string `bson:"firebase_uid" json:"firebase_uid"`
	NoteID      string `bson:"note_id,omitempty" json:"note_id,omitempty"`

	Title       string `bson:"title" json:"title" binding:"required"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	RemindAt time.Time `bson:"remind_at" json:"remind_at" binding:"required"`
	Timezone string    `bson:"timezone,omitempty" json:"timezone,omitempty" binding:"omitempty,timezone"`

	IsRecurring bool        `bson:"is_recurring" json:"is_recurring"`
	Recurrence  *Recurrence `bson:"recurrence,omitempty" json:"recurrence,omitempty"`

	IsCompleted bool       `bson:"is_completed" json:"is_completed"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	IsActive    bool       `bson:"is_active" json:"is_active"`
	IsDismissed bool       `bson:"is_dismissed" json:"is_dismissed"`

	IsSnoozed   bool       `bson:"is_snoozed" json:"is_snoozed"`
	SnoozeUntil *time.Time `bson:"snooze_until,omitempty" json:"snooze_until,omitempty"`

	NotificationSent    bool     `bson:"notification_sent" json:"notification_sent"`
	NotificationMethods []string `bson:"notification_methods,omitempty" json:"notification_methods,omitempty"`

	Priority Priority         `bson:"priority" json:"priority" binding:"omitempty,priority"`
	Category ReminderCategory `bson:"category" json:"category" binding:"omitempty,oneof=general work personal health finance"`
	Tags     []string         `bson:"tags,omitempty" json:"tags,omitempty"`

	Location *Geofence `bson:"location,omitempty" json:"location,omitempty"`

	Occurrences   []Occurrence `bson:"occurrences,omitempty" json:"occurrences,omitempty"`
	LastTriggered *time.Time   `bson:"last_triggered,omitempty" json:"last_triggered,omitempty"`
	NextTrigger   time.Time    `bson:"next_trigger" json:"next_trigger"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// State collapses the stored flags into the single state that describes the
// reminder's notification eligibility. Exactly one state holds at any time;
// the usecase transition functions are the only writers of these flags.
func (r *Reminder) State(now time.Time) ReminderState {
	switch {
	case !r.IsActive:
		switch {
		case r.IsCompleted:
			return StateCompleted
		case r.IsDismissed:
			return StateDismissed
		default:
			return StateInactive
		}
	case r.IsCompleted:
		return StateCompleted
	case r.IsSnoozed && r.SnoozeUntil != nil && now.Before(*r.SnoozeUntil):
		return StateSnoozed
	default:
		return StatePending
	}
}

// OwnerRefs satisfies the ownership check used by the middleware chain.
func (r *Reminder) OwnerRefs() (userID, firebaseUID string) {
	return r.UserID, r.FirebaseUID
}
