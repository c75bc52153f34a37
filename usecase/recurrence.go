package usecase

import (
	"time"

	"notekeeper/model"
)

// ComputeNextTrigger advances from by one recurrence step. It is a pure
// function of the pattern and the anchor time.
//
// Month and year steps clamp to the last day of the target month when the
// anchor day does not exist there (Jan 31 + 1 month = Feb 28/29). Clamping
// was chosen over rollover so that "end of month" reminders never drift into
// the following month.
func ComputeNextTrigger(rec *model.Recurrence, from time.Time) time.Time {
	interval := 1
	if rec != nil && rec.Interval > 0 {
		interval = rec.Interval
	}
	if rec == nil {
		return from.AddDate(0, 0, 1)
	}

	switch rec.Frequency {
	case model.FrequencyDaily:
		return from.AddDate(0, 0, interval)
	case model.FrequencyWeekly:
		return from.AddDate(0, 0, interval*7)
	case model.FrequencyMonthly:
		return addMonthsClamped(from, interval)
	case model.FrequencyYearly:
		return addMonthsClamped(from, interval*12)
	default:
		// Unrecognized frequencies (including "custom" patterns that carry
		// no interpretable rule) degrade to a one-day step.
		return from.AddDate(0, 0, 1)
	}
}

// addMonthsClamped adds months keeping the day of month where possible and
// clamping to the last day of the target month otherwise.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) - 1 + months
	year += m / 12
	m = m % 12
	if m < 0 {
		m += 12
		year--
	}
	targetMonth := time.Month(m + 1)

	if max := daysInMonth(year, targetMonth); day > max {
		day = max
	}

	return time.Date(year, targetMonth, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
