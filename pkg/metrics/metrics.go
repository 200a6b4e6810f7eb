// Package metrics provides aggregation helpers over composed
// timelines. These are pure consumers of the source contract.
package metrics

import (
	"github.com/ashenfad/calgebra/pkg/interval"
	"github.com/ashenfad/calgebra/pkg/timeline"
)

// TotalDuration returns the number of seconds covered by the timeline
// within [start, end), with overlaps counted once.
func TotalDuration(t timeline.Timeline, start, end int64) (int64, error) {
	if start >= end {
		return 0, nil
	}
	spans, err := timeline.Eval(timeline.Flatten(t), start, end)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, s := range spans {
		d, _ := s.Bounds().Duration()
		total += d
	}
	return total, nil
}

// MaxDuration returns the longest span (clipped to the bounds) within
// [start, end), or nil when the range is empty.
func MaxDuration(t timeline.Timeline, start, end int64) (interval.Span, error) {
	return pick(t, start, end, func(candidate, best int64) bool {
		return candidate > best
	})
}

// MinDuration returns the shortest span (clipped to the bounds) within
// [start, end), or nil when the range is empty.
func MinDuration(t timeline.Timeline, start, end int64) (interval.Span, error) {
	return pick(t, start, end, func(candidate, best int64) bool {
		return candidate < best
	})
}

func pick(t timeline.Timeline, start, end int64, better func(candidate, best int64) bool) (interval.Span, error) {
	if start >= end {
		return nil, nil
	}
	spans, err := timeline.Eval(t, start, end)
	if err != nil {
		return nil, err
	}
	var best interval.Span
	var bestLen int64
	for _, s := range spans {
		d, ok := s.Bounds().Duration()
		if !ok {
			continue
		}
		if best == nil || better(d, bestLen) {
			best, bestLen = s, d
		}
	}
	return best, nil
}

// CountIntervals counts the spans the timeline yields over [start, end).
func CountIntervals(t timeline.Timeline, start, end int64) (int, error) {
	if start >= end {
		return 0, nil
	}
	spans, err := timeline.Eval(t, start, end)
	if err != nil {
		return 0, err
	}
	return len(spans), nil
}

// CoverageRatio returns the fraction of [start, end) covered by the
// timeline, between 0 and 1.
func CoverageRatio(t timeline.Timeline, start, end int64) (float64, error) {
	if start >= end {
		return 0, nil
	}
	total, err := TotalDuration(t, start, end)
	if err != nil {
		return 0, err
	}
	return float64(total) / float64(end-start), nil
}
