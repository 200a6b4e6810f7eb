// Package transform provides shape-changing timeline decorators that
// preserve span identity and metadata: Buffer pads intervals, and
// MergeWithin coalesces intervals separated by small gaps.
package transform

import (
	"github.com/cockroachdb/errors"

	"github.com/ashenfad/calgebra/pkg/interval"
	"github.com/ashenfad/calgebra/pkg/timeline"
)

// Parameter errors.
var (
	ErrNegativePadding = errors.New("transform: buffer padding must be non-negative")
	ErrNegativeGap     = errors.New("transform: merge gap must be non-negative")
)

type buffered struct {
	source        timeline.Timeline
	before, after int64
}

// Buffer expands each span by before seconds at the start and after
// seconds at the end, without merging the resulting overlaps. Useful
// for travel/setup/slack time around events.
func Buffer(source timeline.Timeline, before, after int64) (timeline.Timeline, error) {
	if before < 0 {
		return nil, errors.Wrapf(ErrNegativePadding, "before=%d", before)
	}
	if after < 0 {
		return nil, errors.Wrapf(ErrNegativePadding, "after=%d", after)
	}
	return &buffered{source: source, before: before, after: after}, nil
}

func (r *buffered) Mask() bool { return r.source.Mask() }

func (r *buffered) Fetch(start, end int64) (timeline.Iterator, error) {
	// Widen the source window so spans just outside it that pad into
	// the requested range are still picked up.
	lo, hi := start, end
	if lo > interval.NegInf+r.after {
		lo -= r.after
	}
	if hi < interval.PosInf-r.before {
		hi += r.before
	}
	src, err := r.source.Fetch(lo, hi)
	if err != nil {
		return nil, err
	}
	return timeline.Map(src, func(s interval.Span) interval.Span {
		b := s.Bounds()
		if b.BoundedStart() {
			b.Start -= r.before
		}
		if b.BoundedEnd() {
			b.End += r.after
		}
		return s.WithBounds(b)
	}), nil
}

type mergedWithin struct {
	source timeline.Timeline
	gap    int64
}

// MergeWithin coalesces spans separated by at most gap seconds into a
// single span carrying the first member's metadata. Unlike Flatten it
// preserves metadata and only bridges gaps up to the threshold.
func MergeWithin(source timeline.Timeline, gap int64) (timeline.Timeline, error) {
	if gap < 0 {
		return nil, errors.Wrapf(ErrNegativeGap, "gap=%d", gap)
	}
	return &mergedWithin{source: source, gap: gap}, nil
}

func (r *mergedWithin) Mask() bool { return r.source.Mask() }

func (r *mergedWithin) Fetch(start, end int64) (timeline.Iterator, error) {
	src, err := r.source.Fetch(start, end)
	if err != nil {
		return nil, err
	}

	var current interval.Span
	done := false

	flush := func() interval.Span {
		s := current
		current = nil
		return s
	}

	return timeline.Iterate(func() (interval.Span, bool) {
		for !done {
			next, ok := src.Next()
			if !ok {
				done = true
				break
			}
			if current == nil {
				current = next
				continue
			}

			cur := current.Bounds()
			nb := next.Bounds()
			mergeable := !cur.BoundedEnd() || !nb.BoundedStart() ||
				nb.Start-cur.End <= r.gap

			if mergeable {
				newEnd := cur.End
				if !nb.BoundedEnd() || (cur.BoundedEnd() && nb.End > newEnd) {
					newEnd = nb.End
				}
				if newEnd != cur.End {
					current = current.WithBounds(
						interval.Interval{Start: cur.Start, End: newEnd})
				}
				continue
			}

			out := flush()
			current = next
			return out, true
		}
		if current != nil {
			return flush(), true
		}
		return nil, false
	}), nil
}
