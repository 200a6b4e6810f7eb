package recur

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/tj/assert"

	"github.com/ashenfad/calgebra/pkg/interval"
	"github.com/ashenfad/calgebra/pkg/timeline"
)

// 2024-01-01 00:00:00 UTC, a Monday.
const jan1 int64 = 1704067200

func iv(start, end int64) interval.Interval {
	return interval.Interval{Start: start, End: end}
}

func fetchBounds(t *testing.T, tl timeline.Timeline, start, end int64) []interval.Interval {
	t.Helper()
	it, err := tl.Fetch(start, end)
	assert.NoError(t, err)
	spans := timeline.Collect(it)
	out := make([]interval.Interval, len(spans))
	for i, s := range spans {
		out[i] = s.Bounds()
	}
	return out
}

func TestRecurringPatterns(t *testing.T) {
	cases := map[string]struct {
		build      func() (timeline.Timeline, error)
		start, end int64
		expected   []interval.Interval
	}{
		"MondaysOverTwoWeeks": {
			build:    func() (timeline.Timeline, error) { return DayOfWeek("UTC", time.Monday) },
			start:    jan1,
			end:      jan1 + 14*interval.Day,
			expected: []interval.Interval{
				iv(jan1, jan1+interval.Day),
				iv(jan1+7*interval.Day, jan1+8*interval.Day),
			},
		},
		"DailyNineToFive": {
			build:    func() (timeline.Timeline, error) { return TimeOfDay("UTC", 9, 8) },
			start:    jan1,
			end:      jan1 + 2*interval.Day,
			expected: []interval.Interval{
				iv(jan1+9*interval.Hour, jan1+17*interval.Hour),
				iv(jan1+33*interval.Hour, jan1+41*interval.Hour),
			},
		},
		"OccurrenceClampedToQuery": {
			build:    func() (timeline.Timeline, error) { return TimeOfDay("UTC", 9, 8) },
			start:    jan1 + 10*interval.Hour,
			end:      jan1 + 12*interval.Hour,
			expected: []interval.Interval{iv(jan1+10*interval.Hour, jan1+12*interval.Hour)},
		},
		"BusinessHoursSkipWeekend": {
			build:    func() (timeline.Timeline, error) { return BusinessHours("UTC", 9, 17) },
			start:    jan1,
			end:      jan1 + 7*interval.Day,
			expected: []interval.Interval{
				iv(jan1+9*interval.Hour, jan1+17*interval.Hour),
				iv(jan1+interval.Day+9*interval.Hour, jan1+interval.Day+17*interval.Hour),
				iv(jan1+2*interval.Day+9*interval.Hour, jan1+2*interval.Day+17*interval.Hour),
				iv(jan1+3*interval.Day+9*interval.Hour, jan1+3*interval.Day+17*interval.Hour),
				iv(jan1+4*interval.Day+9*interval.Hour, jan1+4*interval.Day+17*interval.Hour),
			},
		},
		"FirstMondayOfMonth": {
			build: func() (timeline.Timeline, error) {
				return Recurring(Config{Freq: Monthly, Days: []time.Weekday{time.Monday}, Week: 1})
			},
			start:    jan1,
			end:      jan1 + 31*interval.Day,
			expected: []interval.Interval{iv(jan1, jan1+interval.Day)},
		},
		"FifteenthOfEachMonth": {
			build: func() (timeline.Timeline, error) {
				return Recurring(Config{Freq: Monthly, DaysOfMonth: []int{15}})
			},
			start: jan1,
			end:   jan1 + 60*interval.Day,
			expected: []interval.Interval{
				iv(jan1+14*interval.Day, jan1+15*interval.Day),
				iv(jan1+45*interval.Day, jan1+46*interval.Day),
			},
		},
		"FractionalStartHour": {
			build: func() (timeline.Timeline, error) {
				return Recurring(Config{Freq: Daily, StartHour: 9.5, DurationHours: 0.5})
			},
			start: jan1,
			end:   jan1 + interval.Day,
			expected: []interval.Interval{
				iv(jan1+9*interval.Hour+30*interval.Minute, jan1+10*interval.Hour),
			},
		},
		"TimezoneOffset": {
			build: func() (timeline.Timeline, error) {
				return TimeOfDay("America/New_York", 9, 8)
			},
			start: jan1,
			end:   jan1 + interval.Day,
			// 09:00-17:00 EST is 14:00-22:00 UTC in January.
			expected: []interval.Interval{
				iv(jan1+14*interval.Hour, jan1+22*interval.Hour),
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tl, err := tc.build()
			assert.NoError(t, err)
			got := fetchBounds(t, tl, tc.start, tc.end)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("unexpected occurrences (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecurringIsMask(t *testing.T) {
	tl, err := Weekdays("UTC")
	assert.NoError(t, err)
	assert.True(t, tl.Mask())
}

func TestRecurringRequiresFiniteBounds(t *testing.T) {
	tl, err := DayOfWeek("UTC", time.Monday)
	assert.NoError(t, err)

	_, err = tl.Fetch(interval.NegInf, jan1)
	assert.True(t, errors.Is(err, ErrUnboundedQuery))
	_, err = tl.Fetch(jan1, interval.PosInf)
	assert.True(t, errors.Is(err, ErrUnboundedQuery))

	// An unbounded Eval surfaces the same error.
	_, err = timeline.Eval(tl, nil, jan1)
	assert.True(t, errors.Is(err, ErrUnboundedQuery))
}

func TestConfigValidation(t *testing.T) {
	cases := map[string]func() (timeline.Timeline, error){
		"NegativeInterval": func() (timeline.Timeline, error) {
			return Recurring(Config{Interval: -1})
		},
		"NegativeDuration": func() (timeline.Timeline, error) {
			return Recurring(Config{DurationHours: -2})
		},
		"StartHourOutOfRange": func() (timeline.Timeline, error) {
			return Recurring(Config{StartHour: 24})
		},
		"UnknownTimezone": func() (timeline.Timeline, error) {
			return Recurring(Config{TZ: "Mars/Olympus_Mons"})
		},
		"DayOfWeekWithoutDays": func() (timeline.Timeline, error) {
			return DayOfWeek("UTC")
		},
		"TimeOfDayZeroDuration": func() (timeline.Timeline, error) {
			return TimeOfDay("UTC", 9, 0)
		},
		"TimeOfDayAcrossMidnight": func() (timeline.Timeline, error) {
			return TimeOfDay("UTC", 20, 8)
		},
		"BusinessHoursInverted": func() (timeline.Timeline, error) {
			return BusinessHours("UTC", 17, 9)
		},
		"BusinessHoursBadStart": func() (timeline.Timeline, error) {
			return BusinessHours("UTC", -1, 17)
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := build()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadConfig))
		})
	}
}

func TestRecurringComposes(t *testing.T) {
	hours, err := BusinessHours("UTC", 9, 17)
	assert.NoError(t, err)
	meetings := timeline.NewMask(
		iv(jan1+8*interval.Hour, jan1+10*interval.Hour),
		iv(jan1+20*interval.Hour, jan1+21*interval.Hour),
	)

	spans, err := timeline.Eval(
		timeline.Intersection(meetings, hours),
		jan1, jan1+interval.Day,
	)
	assert.NoError(t, err)
	got := make([]interval.Interval, len(spans))
	for i, s := range spans {
		got[i] = s.Bounds()
	}
	assert.Equal(t, []interval.Interval{iv(jan1+9*interval.Hour, jan1+10*interval.Hour)}, got)
}
