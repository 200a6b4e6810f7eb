package timeline

import (
	"github.com/ashenfad/calgebra/pkg/interval"
)

type difference struct {
	source      Timeline
	subtractors []Timeline
}

// Difference subtracts every overlapping subtractor interval from each
// source interval, yielding the remaining sub-intervals in ascending
// order with the source span's metadata intact.
func Difference(source Timeline, subtractors ...Timeline) Timeline {
	return &difference{source: source, subtractors: subtractors}
}

// Mask follows the source; subtractors never contribute output.
func (r *difference) Mask() bool { return r.source.Mask() }

func (r *difference) Fetch(start, end int64) (Iterator, error) {
	src, err := r.source.Fetch(start, end)
	if err != nil {
		return nil, err
	}
	if len(r.subtractors) == 0 {
		return src, nil
	}

	// One sorted stream of holes, merged across all subtractors.
	streams := make([]Iterator, len(r.subtractors))
	for i, sub := range r.subtractors {
		it, err := sub.Fetch(start, end)
		if err != nil {
			return nil, err
		}
		streams[i] = it
	}
	holes := Merge(streams...)

	hole, holeOK := holes.Next()
	var pending []interval.Span

	return iterFunc(func() (interval.Span, bool) {
		for {
			if len(pending) > 0 {
				s := pending[0]
				pending = pending[1:]
				return s, true
			}

			span, ok := src.Next()
			if !ok {
				return nil, false
			}
			bounds := span.Bounds()

			if !holeOK {
				return span, true
			}

			// Sweep: cursor tracks the uncovered position inside the
			// current source span as holes are carved out.
			cursor := bounds.Start

			for holeOK && hole.Bounds().End <= cursor {
				hole, holeOK = holes.Next()
			}
			if !holeOK {
				return span, true
			}

			for holeOK && hole.Bounds().Start < bounds.End {
				holeStart := max(cursor, hole.Bounds().Start)
				holeEnd := min(bounds.End, hole.Bounds().End)

				if holeStart < holeEnd {
					if cursor < holeStart {
						pending = append(pending, span.WithBounds(
							interval.Interval{Start: cursor, End: holeStart}))
					}
					cursor = holeEnd
					if cursor >= bounds.End {
						break
					}
				}

				if hole.Bounds().End <= bounds.End {
					hole, holeOK = holes.Next()
				} else {
					break
				}
			}

			if cursor < bounds.End {
				pending = append(pending, span.WithBounds(
					interval.Interval{Start: cursor, End: bounds.End}))
			}
		}
	}), nil
}
