package usecase

import (
	"testing"
	"time"

	"notekeeper/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestComputeNextTrigger(t *testing.T) {
	tests := []struct {
		name       string
		recurrence *model.Recurrence
		from       time.Time
		expected   time.Time
	}{
		{
			name:       "Daily",
			recurrence: &model.Recurrence{Frequency: model.FrequencyDaily, Interval: 1},
			from:       date(2024, time.January, 1),
			expected:   date(2024, time.January, 2),
		},
		{
			name:       "Daily With Interval",
			recurrence: &model.Recurrence{Frequency: model.FrequencyDaily, Interval: 3},
			from:       date(2024, time.January, 1),
			expected:   date(2024, time.January, 4),
		},
		{
			name:       "Weekly",
			recurrence: &model.Recurrence{Frequency: model.FrequencyWeekly, Interval: 1},
			from:       date(2024, time.January, 1),
			expected:   date(2024, time.January, 8),
		},
		{
			name:       "Biweekly",
			recurrence: &model.Recurrence{Frequency: model.FrequencyWeekly, Interval: 2},
			from:       date(2024, time.January, 1),
			expected:   date(2024, time.January, 15),
		},
		{
			name:       "Monthly",
			recurrence: &model.Recurrence{Frequency: model.FrequencyMonthly, Interval: 1},
			from:       date(2024, time.March, 15),
			expected:   date(2024, time.April, 15),
		},
		{
			name:       "Monthly Clamps To Leap February",
			recurrence: &model.Recurrence{Frequency: model.FrequencyMonthly, Interval: 1},
			from:       date(2024, time.January, 31),
			expected:   date(2024, time.February, 29),
		},
		{
			name:       "Monthly Clamps To Short February",
			recurrence: &model.Recurrence{Frequency: model.FrequencyMonthly, Interval: 1},
			from:       date(2025, time.January, 31),
			expected:   date(2025, time.February, 28),
		},
		{
			name:       "Monthly Clamps To Thirty Days",
			recurrence: &model.Recurrence{Frequency: model.FrequencyMonthly, Interval: 2},
			from:       date(2024, time.July, 31),
			expected:   date(2024, time.September, 30),
		},
		{
			name:       "Yearly",
			recurrence: &model.Recurrence{Frequency: model.FrequencyYearly, Interval: 1},
			from:       date(2024, time.June, 10),
			expected:   date(2025, time.June, 10),
		},
		{
			name:       "Yearly From Leap Day",
			recurrence: &model.Recurrence{Frequency: model.FrequencyYearly, Interval: 1},
			from:       date(2024, time.February, 29),
			expected:   date(2025, time.February, 28),
		},
		{
			name:       "Zero Interval Defaults To One",
			recurrence: &model.Recurrence{Frequency: model.FrequencyDaily, Interval: 0},
			from:       date(2024, time.January, 1),
			expected:   date(2024, time.January, 2),
		},
		{
			name:       "Custom Falls Back To Daily",
			recurrence: &model.Recurrence{Frequency: model.FrequencyCustom, Interval: 1},
			from:       date(2024, time.January, 1),
			expected:   date(2024, time.January, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNextTrigger(tt.recurrence, tt.from)
			if !got.Equal(tt.expected) {
				t.Errorf("ComputeNextTrigger() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestComputeNextTriggerPreservesClock(t *testing.T) {
	from := time.Date(2024, time.May, 20, 14, 30, 45, 0, time.UTC)
	got := ComputeNextTrigger(&model.Recurrence{Frequency: model.FrequencyMonthly, Interval: 1}, from)
	if got.Hour() != 14 || got.Minute() != 30 || got.Second() != 45 {
		t.Errorf("expected time of day preserved, got %v", got)
	}
}
