// Package filter provides the predicate DSL applied to timelines via
// timeline.Filtered: boolean predicates over single spans, combined
// with And/Or, built from span properties or custom accessors.
//
// Predicates only combine with predicates; a predicate attaches to a
// timeline through timeline.Filtered. The constructor signatures make
// any other combination a compile-time error.
package filter

import (
	"math"

	"github.com/ashenfad/calgebra/pkg/interval"
)

// Filter is a boolean predicate over a single span. It satisfies
// timeline.Predicate.
type Filter interface {
	Keep(s interval.Span) bool
}

// Func adapts a plain function into a Filter.
type Func func(s interval.Span) bool

// Keep implements Filter.
func (f Func) Keep(s interval.Span) bool { return f(s) }

// And keeps spans satisfying every filter.
func And(filters ...Filter) Filter {
	return Func(func(s interval.Span) bool {
		for _, f := range filters {
			if !f.Keep(s) {
				return false
			}
		}
		return true
	})
}

// Or keeps spans satisfying at least one filter.
func Or(filters ...Filter) Filter {
	return Func(func(s interval.Span) bool {
		for _, f := range filters {
			if f.Keep(s) {
				return true
			}
		}
		return false
	})
}

// Not inverts a filter.
func Not(f Filter) Filter {
	return Func(func(s interval.Span) bool { return !f.Keep(s) })
}

// Property extracts a numeric value from a span for comparison.
type Property func(s interval.Span) float64

// Duration returns the span length in the given unit (seconds by
// default via interval.Second). Unbounded spans compare as +inf.
func Duration(unit int64) Property {
	return func(s interval.Span) float64 {
		d, ok := s.Bounds().Duration()
		if !ok {
			return math.Inf(1)
		}
		return float64(d) / float64(unit)
	}
}

// Start returns the span's start bound, sentinels included.
func Start() Property {
	return func(s interval.Span) float64 { return float64(s.Bounds().Start) }
}

// End returns the span's end bound, sentinels included.
func End() Property {
	return func(s interval.Span) float64 { return float64(s.Bounds().End) }
}

// Field builds a property from a custom accessor, for rich span types.
func Field(get func(s interval.Span) float64) Property {
	return Property(get)
}

// GTE keeps spans whose property is at least v.
func GTE(p Property, v float64) Filter {
	return Func(func(s interval.Span) bool { return p(s) >= v })
}

// GT keeps spans whose property exceeds v.
func GT(p Property, v float64) Filter {
	return Func(func(s interval.Span) bool { return p(s) > v })
}

// LTE keeps spans whose property is at most v.
func LTE(p Property, v float64) Filter {
	return Func(func(s interval.Span) bool { return p(s) <= v })
}

// LT keeps spans whose property is below v.
func LT(p Property, v float64) Filter {
	return Func(func(s interval.Span) bool { return p(s) < v })
}

// EQ keeps spans whose property equals v.
func EQ(p Property, v float64) Filter {
	return Func(func(s interval.Span) bool { return p(s) == v })
}

// NEQ keeps spans whose property differs from v.
func NEQ(p Property, v float64) Filter {
	return Func(func(s interval.Span) bool { return p(s) != v })
}

// OneOf keeps spans whose extracted key is among values.
func OneOf[K comparable](get func(s interval.Span) K, values ...K) Filter {
	set := make(map[K]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Func(func(s interval.Span) bool {
		_, ok := set[get(s)]
		return ok
	})
}

// HasAny keeps spans whose extracted collection intersects values.
func HasAny[K comparable](get func(s interval.Span) []K, values ...K) Filter {
	set := make(map[K]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Func(func(s interval.Span) bool {
		for _, v := range get(s) {
			if _, ok := set[v]; ok {
				return true
			}
		}
		return false
	})
}

// HasAll keeps spans whose extracted collection contains every value.
func HasAll[K comparable](get func(s interval.Span) []K, values ...K) Filter {
	return Func(func(s interval.Span) bool {
		have := make(map[K]struct{})
		for _, v := range get(s) {
			have[v] = struct{}{}
		}
		for _, v := range values {
			if _, ok := have[v]; !ok {
				return false
			}
		}
		return true
	})
}
