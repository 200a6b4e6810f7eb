package timeline

import (
	"github.com/ashenfad/calgebra/pkg/interval"
)

type intersection struct {
	sources []Timeline
}

// Intersection composes timelines with set-intersection semantics. For
// every window where all children overlap, a clipped copy with bounds
// (max of starts, min of ends) is emitted from the selected children:
//
//   - all children mask: one mask interval per window (auto-flatten)
//   - exactly the mask children masked, the rest rich: one copy per
//     rich child, preserving its metadata; masks contribute no output
//   - all children rich: one copy per child, so overlapping pairs
//     yield duplicates in sorted position (apply Flatten to coalesce)
//
// Nested intersections are spliced into one multi-way node at
// construction.
func Intersection(first Timeline, rest ...Timeline) Timeline {
	sources := make([]Timeline, 0, len(rest)+1)
	for _, src := range append([]Timeline{first}, rest...) {
		if x, ok := src.(*intersection); ok {
			sources = append(sources, x.sources...)
			continue
		}
		sources = append(sources, src)
	}
	return &intersection{sources: sources}
}

// Mask reports true only when every child is a mask source.
func (r *intersection) Mask() bool {
	for _, src := range r.sources {
		if !src.Mask() {
			return false
		}
	}
	return true
}

func (r *intersection) Fetch(start, end int64) (Iterator, error) {
	iterators := make([]Iterator, len(r.sources))
	for i, src := range r.sources {
		it, err := src.Fetch(start, end)
		if err != nil {
			return nil, err
		}
		// Same-source duplicates at identical timestamps would pair
		// more than once; drop them before the lockstep.
		iterators[i] = &dedupIterator{src: it}
	}

	emit := r.emitIndices()

	// Prime one current span per child; any empty child means an empty
	// intersection.
	current := make([]interval.Span, len(iterators))
	for i, it := range iterators {
		s, ok := it.Next()
		if !ok {
			return Empty(), nil
		}
		current[i] = s
	}

	var pending []interval.Span
	done := false

	return iterFunc(func() (interval.Span, bool) {
		for {
			if len(pending) > 0 {
				s := pending[0]
				pending = pending[1:]
				return s, true
			}
			if done {
				return nil, false
			}

			overlapStart := current[0].Bounds().Start
			overlapEnd := current[0].Bounds().End
			for _, s := range current[1:] {
				overlapStart = max(overlapStart, s.Bounds().Start)
				overlapEnd = min(overlapEnd, s.Bounds().End)
			}

			if overlapStart < overlapEnd {
				window := interval.Interval{Start: overlapStart, End: overlapEnd}
				for _, idx := range emit {
					pending = append(pending, current[idx].WithBounds(window))
				}
			}

			// Advance every child whose span ends at the window edge;
			// the min-end child always does, so progress is guaranteed.
			cutoff := overlapEnd
			for i, s := range current {
				if s.Bounds().End == cutoff {
					next, ok := iterators[i].Next()
					if !ok {
						done = true
						break
					}
					current[i] = next
				}
			}
		}
	}), nil
}

// emitIndices selects which children contribute output spans.
func (r *intersection) emitIndices() []int {
	allMask := true
	var rich []int
	for i, src := range r.sources {
		if !src.Mask() {
			allMask = false
			rich = append(rich, i)
		}
	}
	if allMask {
		return []int{0}
	}
	return rich
}
