// Package interval provides the half-open time interval value type and
// the Span capability shared by every source in the algebra. Bounds are
// canonical integer seconds; either side of an interval may be the
// NegInf / PosInf sentinel, meaning unbounded.
package interval

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// Sentinel bounds. These values are reserved: a finite bound never
// equals a sentinel, so comparisons against them need no branching.
const (
	NegInf int64 = math.MinInt64
	PosInf int64 = math.MaxInt64
)

// Time unit constants in canonical seconds.
const (
	Second int64 = 1
	Minute int64 = 60
	Hour   int64 = 3600
	Day    int64 = 86400
	Week   int64 = 604800
)

// ErrInvertedBounds is returned when both bounds are finite and start
// exceeds end.
var ErrInvertedBounds = errors.New("interval: start must not exceed end")

// Interval is a half-open time range [Start, End). It is immutable by
// convention: operators derive new values, never mutate.
type Interval struct {
	Start int64
	End   int64
}

// New validates and returns the interval [start, end).
func New(start, end int64) (Interval, error) {
	if start != NegInf && end != PosInf && start > end {
		return Interval{}, errors.Wrapf(ErrInvertedBounds, "[%d, %d)", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// MustNew is New for statically-known bounds; it panics on inverted
// bounds.
func MustNew(start, end int64) Interval {
	iv, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

// From returns the interval [start, +inf).
func From(start int64) Interval { return Interval{Start: start, End: PosInf} }

// Until returns the interval (-inf, end).
func Until(end int64) Interval { return Interval{Start: NegInf, End: end} }

// All returns the fully unbounded interval.
func All() Interval { return Interval{Start: NegInf, End: PosInf} }

// BoundedStart reports whether the lower bound is finite.
func (r Interval) BoundedStart() bool { return r.Start != NegInf }

// BoundedEnd reports whether the upper bound is finite.
func (r Interval) BoundedEnd() bool { return r.End != PosInf }

// Duration returns End-Start and true when both bounds are finite.
func (r Interval) Duration() (int64, bool) {
	if !r.BoundedStart() || !r.BoundedEnd() {
		return 0, false
	}
	return r.End - r.Start, true
}

// Empty reports whether the interval covers no time.
func (r Interval) Empty() bool { return r.Start >= r.End }

// Overlaps reports whether r and other share any instant.
func (r Interval) Overlaps(other Interval) bool {
	return max(r.Start, other.Start) < min(r.End, other.End)
}

// Clip returns the overlap of r with window, and false when they are
// disjoint.
func (r Interval) Clip(window Interval) (Interval, bool) {
	start := max(r.Start, window.Start)
	end := min(r.End, window.End)
	if start >= end {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// Compare orders intervals lexicographically by (Start, End), with
// sentinels comparing as extreme values.
func (r Interval) Compare(other Interval) int {
	switch {
	case r.Start < other.Start:
		return -1
	case r.Start > other.Start:
		return 1
	case r.End < other.End:
		return -1
	case r.End > other.End:
		return 1
	}
	return 0
}

func (r Interval) String() string {
	switch {
	case !r.BoundedStart() && !r.BoundedEnd():
		return "[-inf, +inf)"
	case !r.BoundedStart():
		return fmt.Sprintf("[-inf, %d)", r.End)
	case !r.BoundedEnd():
		return fmt.Sprintf("[%d, +inf)", r.Start)
	}
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Bounds implements Span.
func (r Interval) Bounds() Interval { return r }

// WithBounds implements Span; the result is a bare mask interval.
func (r Interval) WithBounds(iv Interval) Span { return iv }

// Span is the capability every interval variant satisfies. A rich
// variant embeds Interval and implements WithBounds by copying itself
// with the replacement bounds, so operators can clone-and-clip without
// knowing the concrete type.
type Span interface {
	Bounds() Interval
	// WithBounds returns a copy of the span with the given bounds,
	// preserving all metadata fields.
	WithBounds(Interval) Span
}

// CompareSpans orders spans by their bounds.
func CompareSpans(a, b Span) int { return a.Bounds().Compare(b.Bounds()) }

// ClipSpan clips s to window, returning a metadata-preserving copy and
// false when s is disjoint from window.
func ClipSpan(s Span, window Interval) (Span, bool) {
	clipped, ok := s.Bounds().Clip(window)
	if !ok {
		return nil, false
	}
	if clipped == s.Bounds() {
		return s, true
	}
	return s.WithBounds(clipped), true
}
