package recur

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ashenfad/calgebra/pkg/timeline"
)

// DayOfWeek returns full-day intervals for the given weekdays in tz.
func DayOfWeek(tz string, days ...time.Weekday) (timeline.Timeline, error) {
	if len(days) == 0 {
		return nil, errors.Wrap(ErrBadConfig, "no days given")
	}
	return Recurring(Config{Freq: Weekly, Days: days, TZ: tz})
}

// TimeOfDay returns a daily window starting at startHour (fractional
// hours) and lasting durationHours. The window cannot span midnight;
// use Recurring directly for overnight patterns.
func TimeOfDay(tz string, startHour, durationHours float64) (timeline.Timeline, error) {
	if durationHours <= 0 {
		return nil, errors.Wrapf(ErrBadConfig, "duration_hours=%v", durationHours)
	}
	if startHour+durationHours > 24 {
		return nil, errors.Wrapf(ErrBadConfig,
			"window %v+%vh crosses midnight", startHour, durationHours)
	}
	return Recurring(Config{
		Freq:          Daily,
		StartHour:     startHour,
		DurationHours: durationHours,
		TZ:            tz,
	})
}

// Weekdays returns all Monday-Friday time in tz.
func Weekdays(tz string) (timeline.Timeline, error) {
	return DayOfWeek(tz, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday)
}

// Weekends returns all Saturday-Sunday time in tz.
func Weekends(tz string) (timeline.Timeline, error) {
	return DayOfWeek(tz, time.Saturday, time.Sunday)
}

// BusinessHours returns weekday time between startHour (inclusive) and
// endHour (exclusive) in tz.
func BusinessHours(tz string, startHour, endHour int) (timeline.Timeline, error) {
	if startHour < 0 || startHour > 23 {
		return nil, errors.Wrapf(ErrBadConfig, "start_hour=%d", startHour)
	}
	if endHour < 1 || endHour > 24 {
		return nil, errors.Wrapf(ErrBadConfig, "end_hour=%d", endHour)
	}
	if startHour >= endHour {
		return nil, errors.Wrapf(ErrBadConfig,
			"start_hour %d must precede end_hour %d", startHour, endHour)
	}
	return Recurring(Config{
		Freq:          Weekly,
		Days:          []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartHour:     float64(startHour),
		DurationHours: float64(endHour - startHour),
		TZ:            tz,
	})
}
