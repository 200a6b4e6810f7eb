// Package timeline provides the source contract of the algebra and the
// composable operator nodes (union, intersection, difference,
// complement, filtered, flatten). A timeline never fetches data until
// queried and every query is an independent evaluation of the
// expression tree.
package timeline

import (
	"github.com/ashenfad/calgebra/pkg/interval"
)

// Timeline produces sorted intervals for a queried range. Leaf
// collaborators (recurrence generators, calendar adapters, static
// collections) and operator nodes all satisfy this contract.
type Timeline interface {
	// Fetch returns spans overlapping [start, end) in ascending
	// (start, end) order. Use interval.NegInf / interval.PosInf for an
	// unbounded side. Returned spans may extend beyond the requested
	// range; Eval is the single place that clips to exact bounds.
	// Each call is an independent, restartable evaluation.
	//
	// Sorted, position-deduplicated output is a precondition on leaf
	// implementers; the operators do not re-sort.
	Fetch(start, end int64) (Iterator, error)

	// Mask reports whether the timeline yields only bare mask
	// intervals (no metadata). Set at construction, never inferred.
	Mask() bool
}

// Iterator is a pull-based, finite stream of spans.
type Iterator interface {
	// Next returns the next span, or false when the stream is done.
	Next() (interval.Span, bool)
}

// Predicate decides whether a span passes a Filtered node. The filter
// package provides composable implementations.
type Predicate interface {
	Keep(s interval.Span) bool
}

type iterFunc func() (interval.Span, bool)

func (f iterFunc) Next() (interval.Span, bool) { return f() }

type emptyIterator struct{}

func (emptyIterator) Next() (interval.Span, bool) { return nil, false }

// Empty returns an iterator yielding nothing.
func Empty() Iterator { return emptyIterator{} }

type sliceIterator struct {
	spans []interval.Span
	next  int
}

func (r *sliceIterator) Next() (interval.Span, bool) {
	if r.next >= len(r.spans) {
		return nil, false
	}
	s := r.spans[r.next]
	r.next++
	return s, true
}

// FromSlice returns an iterator over spans, which must already be in
// ascending (start, end) order.
func FromSlice(spans []interval.Span) Iterator {
	return &sliceIterator{spans: spans}
}

// Iterate adapts a pull function into an Iterator.
func Iterate(next func() (interval.Span, bool)) Iterator {
	return iterFunc(next)
}

// Map lazily transforms each span of src. The transform must keep the
// stream's (start, end) ordering intact.
func Map(src Iterator, f func(interval.Span) interval.Span) Iterator {
	return iterFunc(func() (interval.Span, bool) {
		s, ok := src.Next()
		if !ok {
			return nil, false
		}
		return f(s), true
	})
}

// Collect drains it into a slice.
func Collect(it Iterator) []interval.Span {
	var out []interval.Span
	for s, ok := it.Next(); ok; s, ok = it.Next() {
		out = append(out, s)
	}
	return out
}

// dedupIterator suppresses consecutive spans with identical bounds from
// a single child stream. Intersection uses it so same-source duplicate
// entries at identical timestamps cannot pair twice.
type dedupIterator struct {
	src  Iterator
	prev interval.Span
}

func (r *dedupIterator) Next() (interval.Span, bool) {
	for {
		s, ok := r.src.Next()
		if !ok {
			return nil, false
		}
		if r.prev != nil && s.Bounds() == r.prev.Bounds() {
			continue
		}
		r.prev = s
		return s, true
	}
}
