// Package recur provides recurring-pattern leaf sources built on the
// RFC 5545 recurrence engine (github.com/teambition/rrule-go). The
// generated timelines are mask sources satisfying the timeline
// contract; they require finite query bounds because a recurrence is
// an infinite sequence.
package recur

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/teambition/rrule-go"

	"github.com/ashenfad/calgebra/pkg/interval"
	"github.com/ashenfad/calgebra/pkg/timeline"
)

// Errors reported by recurring sources.
var (
	ErrUnboundedQuery = errors.New("recur: recurring timelines require finite query bounds")
	ErrBadConfig      = errors.New("recur: invalid recurrence configuration")
)

// Frequency of a recurring pattern.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

var rruleFreq = map[Frequency]rrule.Frequency{
	Daily:   rrule.DAILY,
	Weekly:  rrule.WEEKLY,
	Monthly: rrule.MONTHLY,
	Yearly:  rrule.YEARLY,
}

var rruleDay = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Config describes a recurring pattern. Zero values take the documented
// defaults.
type Config struct {
	Freq     Frequency
	Interval int // repeat every N units; default 1

	Days        []time.Weekday // days of week, for weekly/monthly patterns
	Week        int            // which week of month the Days apply to (1=first, -1=last)
	DaysOfMonth []int          // 1-31, or -1 for the last day
	Months      []time.Month   // months, for yearly patterns

	StartHour     float64 // start of each occurrence, fractional hours
	DurationHours float64 // length of each occurrence; default 24
	TZ            string  // IANA timezone name; default UTC
}

type recurring struct {
	cfg Config
	loc *time.Location
}

// Recurring returns a mask timeline generating one half-open interval
// per rule occurrence within the queried range.
func Recurring(cfg Config) (timeline.Timeline, error) {
	if cfg.Interval == 0 {
		cfg.Interval = 1
	}
	if cfg.Interval < 0 {
		return nil, errors.Wrapf(ErrBadConfig, "interval=%d", cfg.Interval)
	}
	if cfg.DurationHours == 0 {
		cfg.DurationHours = 24
	}
	if cfg.DurationHours < 0 {
		return nil, errors.Wrapf(ErrBadConfig, "duration_hours=%v", cfg.DurationHours)
	}
	if cfg.StartHour < 0 || cfg.StartHour >= 24 {
		return nil, errors.Wrapf(ErrBadConfig, "start_hour=%v", cfg.StartHour)
	}
	tz := cfg.TZ
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrapf(ErrBadConfig, "tz=%q", tz)
	}
	return &recurring{cfg: cfg, loc: loc}, nil
}

// Mask is always true: recurrence boundaries carry no metadata.
func (r *recurring) Mask() bool { return true }

func (r *recurring) Fetch(start, end int64) (timeline.Iterator, error) {
	if start == interval.NegInf || end == interval.PosInf {
		return nil, errors.Wrapf(ErrUnboundedQuery, "fetch [%d, %d)", start, end)
	}

	// Anchor the rule at local midnight of the query start so occurrence
	// times are wall-clock stable across the range.
	startDt := time.Unix(start, 0).In(r.loc)
	dtstart := time.Date(startDt.Year(), startDt.Month(), startDt.Day(), 0, 0, 0, 0, r.loc)
	endDt := time.Unix(end, 0).In(r.loc)

	opt := rrule.ROption{
		Freq:     rruleFreq[r.cfg.Freq],
		Interval: r.cfg.Interval,
		Dtstart:  dtstart,
		Until:    endDt,
	}
	for _, d := range r.cfg.Days {
		wd := rruleDay[d]
		if r.cfg.Week != 0 {
			wd = wd.Nth(r.cfg.Week)
		}
		opt.Byweekday = append(opt.Byweekday, wd)
	}
	opt.Bymonthday = append(opt.Bymonthday, r.cfg.DaysOfMonth...)
	for _, m := range r.cfg.Months {
		opt.Bymonth = append(opt.Bymonth, int(m))
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, errors.Wrap(ErrBadConfig, err.Error())
	}

	hour, minute, sec := splitHour(r.cfg.StartHour)
	duration := time.Duration(r.cfg.DurationHours * float64(time.Hour))

	occurrences := rule.Between(dtstart, endDt, true)
	i := 0
	return timeline.Iterate(func() (interval.Span, bool) {
		for i < len(occurrences) {
			occ := occurrences[i]
			i++

			ws := time.Date(occ.Year(), occ.Month(), occ.Day(), hour, minute, sec, 0, r.loc)
			we := ws.Add(duration)

			// Clamp to the query; occurrences straddling the bounds
			// shrink rather than disappear.
			s := max(ws.Unix(), start)
			e := min(we.Unix(), end)
			if s < e {
				return interval.Interval{Start: s, End: e}, true
			}
		}
		return nil, false
	}), nil
}

func splitHour(h float64) (hour, minute, sec int) {
	hour = int(h)
	rem := (h - float64(hour)) * 60
	minute = int(rem)
	sec = int((rem - float64(minute)) * 60)
	return hour, minute, sec
}
