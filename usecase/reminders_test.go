package usecase

import (
	"errors"
	"testing"
	"time"

	"notekeeper/model"
)

func newTestReminder() *model.Reminder {
	return &model.Reminder{
		ReminderID: "rem-1",
		UserID:     "user-1",
		Title:      "Water the plants",
		RemindAt:   date(2024, time.June, 1),
		Priority:   model.PriorityMedium,
		Category:   model.ReminderGeneral,
		IsActive:   true,
	}
}

func newRecurringReminder(rec *model.Recurrence) *model.Reminder {
	r := newTestReminder()
	r.IsRecurring = true
	r.Recurrence = rec
	return r
}

func TestMarkCompletedOneShot(t *testing.T) {
	now := date(2024, time.June, 1)
	r := newTestReminder()

	MarkCompleted(r, now)

	if !r.IsCompleted {
		t.Error("expected reminder to be completed")
	}
	if r.CompletedAt == nil || !r.CompletedAt.Equal(now) {
		t.Errorf("expected completed_at = %v, got %v", now, r.CompletedAt)
	}
	if got := r.State(now); got != model.StateCompleted {
		t.Errorf("State() = %v, want %v", got, model.StateCompleted)
	}
	if len(r.Occurrences) != 0 {
		t.Errorf("one-shot reminders record no occurrences, got %d", len(r.Occurrences))
	}
}

func TestMarkCompletedRecurringAdvances(t *testing.T) {
	now := date(2024, time.June, 1)
	r := newRecurringReminder(&model.Recurrence{Frequency: model.FrequencyDaily, Interval: 1})

	MarkCompleted(r, now)

	if r.IsCompleted {
		t.Error("recurring reminder should reset to pending after completion")
	}
	if len(r.Occurrences) != 1 {
		t.Fatalf("expected 1 recorded occurrence, got %d", len(r.Occurrences))
	}
	if r.Occurrences[0].CompletedAt == nil {
		t.Error("recorded occurrence should carry a completion time")
	}
	want := date(2024, time.June, 2)
	if !r.RemindAt.Equal(want) {
		t.Errorf("remind_at = %v, want %v", r.RemindAt, want)
	}
	if got := r.State(now); got != model.StatePending {
		t.Errorf("State() = %v, want %v", got, model.StatePending)
	}
}

func TestMarkCompletedStopsAtMaxOccurrences(t *testing.T) {
	now := date(2024, time.June, 1)
	r := newRecurringReminder(&model.Recurrence{
		Frequency:      model.FrequencyDaily,
		Interval:       1,
		MaxOccurrences: 2,
	})

	MarkCompleted(r, now)
	if !r.IsActive {
		t.Fatal("reminder should stay active after first completion")
	}

	MarkCompleted(r, now.AddDate(0, 0, 1))
	if r.IsActive {
		t.Fatal("reminder should deactivate after reaching max occurrences")
	}
	if len(r.Occurrences) != 2 {
		t.Fatalf("expected 2 recorded occurrences, got %d", len(r.Occurrences))
	}

	// Further completions are no-ops.
	before := *r
	MarkCompleted(r, now.AddDate(0, 0, 2))
	if len(r.Occurrences) != 2 || r.IsActive != before.IsActive {
		t.Error("completing an inactive reminder should change nothing")
	}
}

func TestMarkCompletedStopsAfterEndDate(t *testing.T) {
	end := date(2024, time.June, 1)
	r := newRecurringReminder(&model.Recurrence{
		Frequency: model.FrequencyDaily,
		Interval:  1,
		EndDate:   &end,
	})

	MarkCompleted(r, date(2024, time.June, 2))

	if r.IsActive {
		t.Error("reminder should deactivate once the recurrence end date passes")
	}
}

func TestSnoozeReminder(t *testing.T) {
	now := date(2024, time.June, 1)

	t.Run("Default Duration", func(t *testing.T) {
		r := newTestReminder()
		if err := SnoozeReminder(r, 0, now); err != nil {
			t.Fatalf("SnoozeReminder() error = %v", err)
		}
		want := now.Add(10 * time.Minute)
		if r.SnoozeUntil == nil || !r.SnoozeUntil.Equal(want) {
			t.Errorf("snooze_until = %v, want %v", r.SnoozeUntil, want)
		}
		if got := r.State(now); got != model.StateSnoozed {
			t.Errorf("State() = %v, want %v", got, model.StateSnoozed)
		}
	})

	t.Run("Custom Duration", func(t *testing.T) {
		r := newTestReminder()
		if err := SnoozeReminder(r, 45, now); err != nil {
			t.Fatalf("SnoozeReminder() error = %v", err)
		}
		want := now.Add(45 * time.Minute)
		if r.SnoozeUntil == nil || !r.SnoozeUntil.Equal(want) {
			t.Errorf("snooze_until = %v, want %v", r.SnoozeUntil, want)
		}
	})

	t.Run("Completed Reminder Rejected", func(t *testing.T) {
		r := newTestReminder()
		MarkCompleted(r, now)
		if err := SnoozeReminder(r, 10, now); !errors.Is(err, ErrReminderInactive) {
			t.Errorf("expected ErrReminderInactive, got %v", err)
		}
	})

	t.Run("Expired Snooze Returns To Pending", func(t *testing.T) {
		r := newTestReminder()
		if err := SnoozeReminder(r, 10, now); err != nil {
			t.Fatalf("SnoozeReminder() error = %v", err)
		}
		later := now.Add(11 * time.Minute)
		if got := r.State(later); got != model.StatePending {
			t.Errorf("State() after snooze expiry = %v, want %v", got, model.StatePending)
		}
		ClearExpiredSnooze(r, later)
		if r.IsSnoozed || r.SnoozeUntil != nil {
			t.Error("expired snooze flags should be cleared")
		}
	})
}

func TestDismissReminder(t *testing.T) {
	now := date(2024, time.June, 1)

	t.Run("One Shot Deactivates", func(t *testing.T) {
		r := newTestReminder()
		DismissReminder(r, now)
		if r.IsActive {
			t.Error("dismissed one-shot reminder should be inactive")
		}
		if got := r.State(now); got != model.StateDismissed {
			t.Errorf("State() = %v, want %v", got, model.StateDismissed)
		}
	})

	t.Run("Recurring Skips To Next", func(t *testing.T) {
		r := newRecurringReminder(&model.Recurrence{Frequency: model.FrequencyWeekly, Interval: 1})
		DismissReminder(r, now)
		if !r.IsActive {
			t.Error("dismissed recurring reminder should stay active")
		}
		if len(r.Occurrences) != 1 || !r.Occurrences[0].Skipped {
			t.Fatalf("expected one skipped occurrence, got %+v", r.Occurrences)
		}
		want := date(2024, time.June, 8)
		if !r.RemindAt.Equal(want) {
			t.Errorf("remind_at = %v, want %v", r.RemindAt, want)
		}
	})

	t.Run("Skipped Occurrences Count Toward Max", func(t *testing.T) {
		r := newRecurringReminder(&model.Recurrence{
			Frequency:      model.FrequencyDaily,
			Interval:       1,
			MaxOccurrences: 1,
		})
		DismissReminder(r, now)
		if r.IsActive {
			t.Error("reminder should deactivate when skips exhaust max occurrences")
		}
	})
}

func TestNormalizeReminder(t *testing.T) {
	now := date(2024, time.June, 1)

	t.Run("One Shot Triggers At RemindAt", func(t *testing.T) {
		r := newTestReminder()
		NormalizeReminder(r, now)
		if !r.NextTrigger.Equal(r.RemindAt) {
			t.Errorf("next_trigger = %v, want %v", r.NextTrigger, r.RemindAt)
		}
	})

	t.Run("Recurring Derives Following Occurrence", func(t *testing.T) {
		r := newRecurringReminder(&model.Recurrence{Frequency: model.FrequencyDaily, Interval: 2})
		NormalizeReminder(r, now)
		want := date(2024, time.June, 3)
		if !r.NextTrigger.Equal(want) {
			t.Errorf("next_trigger = %v, want %v", r.NextTrigger, want)
		}
	})

	t.Run("Completed Recurring Falls Back To RemindAt", func(t *testing.T) {
		r := newRecurringReminder(&model.Recurrence{Frequency: model.FrequencyDaily, Interval: 1})
		r.IsCompleted = true
		r.IsActive = false
		NormalizeReminder(r, now)
		if !r.NextTrigger.Equal(r.RemindAt) {
			t.Errorf("next_trigger = %v, want %v", r.NextTrigger, r.RemindAt)
		}
	})

	t.Run("Stamps UpdatedAt", func(t *testing.T) {
		r := newTestReminder()
		NormalizeReminder(r, now)
		if !r.UpdatedAt.Equal(now) {
			t.Errorf("updated_at = %v, want %v", r.UpdatedAt, now)
		}
	})
}

func TestReminderState(t *testing.T) {
	now := date(2024, time.June, 1)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		mutate   func(*model.Reminder)
		expected model.ReminderState
	}{
		{"Pending", func(r *model.Reminder) {}, model.StatePending},
		{"Snoozed", func(r *model.Reminder) {
			r.IsSnoozed = true
			r.SnoozeUntil = &future
		}, model.StateSnoozed},
		{"Completed", func(r *model.Reminder) {
			r.IsCompleted = true
		}, model.StateCompleted},
		{"Dismissed", func(r *model.Reminder) {
			r.IsActive = false
			r.IsDismissed = true
		}, model.StateDismissed},
		{"Inactive", func(r *model.Reminder) {
			r.IsActive = false
		}, model.StateInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReminder()
			tt.mutate(r)
			if got := r.State(now); got != tt.expected {
				t.Errorf("State() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidateRecurrence(t *testing.T) {
	tests := []struct {
		name    string
		rec     *model.Recurrence
		wantErr bool
	}{
		{"Nil Pattern", nil, true},
		{"Unknown Frequency", &model.Recurrence{Frequency: "fortnightly", Interval: 1}, true},
		{"Negative Interval", &model.Recurrence{Frequency: model.FrequencyDaily, Interval: -1}, true},
		{"Day Of Month Out Of Range", &model.Recurrence{Frequency: model.FrequencyMonthly, Interval: 1, DayOfMonth: 32}, true},
		{"Valid Weekly", &model.Recurrence{Frequency: model.FrequencyWeekly, Interval: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecurrence(tt.rec)
			if tt.wantErr && !errors.Is(err, ErrInvalidRecurrence) {
				t.Errorf("validateRecurrence() = %v, want ErrInvalidRecurrence", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateRecurrence() = %v, want nil", err)
			}
		})
	}

	t.Run("Omitted Interval Defaults To One", func(t *testing.T) {
		rec := &model.Recurrence{Frequency: model.FrequencyDaily}
		if err := validateRecurrence(rec); err != nil {
			t.Fatalf("validateRecurrence() = %v, want nil", err)
		}
		if rec.Interval != 1 {
			t.Errorf("interval = %d, want 1", rec.Interval)
		}
	})
}
