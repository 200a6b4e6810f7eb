package timeline

import (
	"github.com/ashenfad/calgebra/pkg/interval"
)

// GapFactory builds the concrete gap span emitted by a Complement node.
// The result must remain a plain mask span: complement output carries
// no source metadata.
type GapFactory func(iv interval.Interval) interval.Span

func maskGap(iv interval.Interval) interval.Span { return iv }

type complement struct {
	source Timeline
	gaps   GapFactory
}

// Complement yields the gaps of its child over the query range: before
// the first child interval, between consecutive intervals, and after
// the last. An unbounded query side with no constraining child
// interval produces a sentinel-unbounded gap; the fully unbounded
// complement of an empty source is exactly one [-inf, +inf) interval.
func Complement(source Timeline) Timeline {
	return &complement{source: source, gaps: maskGap}
}

// ComplementWith is Complement with an injected gap constructor.
func ComplementWith(source Timeline, gaps GapFactory) Timeline {
	if gaps == nil {
		gaps = maskGap
	}
	return &complement{source: source, gaps: gaps}
}

// Flatten yields a coalesced, metadata-stripped view of the source:
// minimal non-overlapping mask intervals covering exactly the union of
// its coverage. Flattening is idempotent.
func Flatten(source Timeline) Timeline {
	return Complement(Complement(source))
}

// Mask is always true: gaps represent the absence of events.
func (r *complement) Mask() bool { return true }

func (r *complement) Fetch(start, end int64) (Iterator, error) {
	src, err := r.source.Fetch(start, end)
	if err != nil {
		return nil, err
	}

	cursor := start
	done := false

	return iterFunc(func() (interval.Span, bool) {
		if done {
			return nil, false
		}
		for {
			span, ok := src.Next()
			if !ok {
				break
			}
			bounds := span.Bounds()
			if bounds.End <= start {
				continue
			}
			if bounds.Start >= end {
				break
			}

			segStart := max(bounds.Start, start)
			segEnd := min(bounds.End, end)
			if segEnd <= cursor {
				continue
			}

			var gap interval.Span
			if segStart > cursor {
				gap = r.gaps(interval.Interval{Start: cursor, End: segStart})
			}
			cursor = max(cursor, segEnd)
			if cursor >= end {
				done = true
			}
			if gap != nil {
				return gap, true
			}
			if done {
				return nil, false
			}
		}

		done = true
		if cursor < end {
			return r.gaps(interval.Interval{Start: cursor, End: end}), true
		}
		return nil, false
	}), nil
}
