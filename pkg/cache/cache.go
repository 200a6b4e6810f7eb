// Package cache provides a TTL-based caching decorator for timelines.
// It memoizes fetched coverage as timestamped segments, serves
// overlapping queries from cache, and refetches only the uncovered or
// expired remainder, fracturing stale segments so still-fresh coverage
// survives a partial refetch.
//
// A Cache is the only mutable node in an expression tree; it is not
// safe for uncoordinated concurrent use and callers needing concurrent
// access must serialize around it.
package cache

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ashenfad/calgebra/pkg/interval"
	"github.com/ashenfad/calgebra/pkg/timeline"
)

// ErrInvalidTTL is returned by New for a non-positive TTL.
var ErrInvalidTTL = errors.New("cache: ttl must be positive")

// segment is a covered sub-range [start, end), the spans materialized
// for it, and the instant it was fetched. Fracturing trims start/end;
// the timestamp never changes after creation.
type segment struct {
	start, end int64
	spans      []interval.Span
	fetchedAt  time.Time
}

func (s segment) covers() interval.Interval {
	return interval.Interval{Start: s.start, End: s.end}
}

// Cache decorates a timeline with TTL-based memoization.
type Cache struct {
	source timeline.Timeline
	ttl    time.Duration
	clock  clockwork.Clock
	log    *zap.Logger

	// segments are kept sorted by start with non-overlapping coverage.
	segments []segment
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock injects the clock used for segment timestamps; tests use
// clockwork.NewFakeClock to step across TTL boundaries.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Cache) { c.clock = clock }
}

// WithLogger enables debug logging of the cache lifecycle.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New wraps source with a caching decorator holding entries for ttl.
func New(source timeline.Timeline, ttl time.Duration, opts ...Option) (*Cache, error) {
	if ttl <= 0 {
		return nil, errors.Wrapf(ErrInvalidTTL, "%s", ttl)
	}
	c := &Cache{
		source: source,
		ttl:    ttl,
		clock:  clockwork.NewRealClock(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Mask follows the wrapped source.
func (r *Cache) Mask() bool { return r.source.Mask() }

// Reset discards all cached coverage.
func (r *Cache) Reset() {
	r.segments = nil
	r.log.Debug("cache reset")
}

// Fetch implements timeline.Timeline. Sub-ranges of [start, end)
// covered by fresh segments are served from cache; the remainder is
// fetched from the wrapped source, stored as new segments, and stale
// segments overlapping the refetch are fractured in place.
func (r *Cache) Fetch(start, end int64) (timeline.Iterator, error) {
	now := r.clock.Now()
	query := interval.Interval{Start: start, End: end}
	if query.Empty() {
		return timeline.Empty(), nil
	}

	misses := r.missRanges(query, now)
	r.log.Debug("cache fetch",
		zap.Stringer("query", query),
		zap.Int("segments", len(r.segments)),
		zap.Int("misses", len(misses)))

	var fetched []segment
	for _, miss := range misses {
		it, err := r.source.Fetch(miss.Start, miss.End)
		if err != nil {
			return nil, err
		}
		fetched = append(fetched, segment{
			start:     miss.Start,
			end:       miss.End,
			spans:     timeline.Collect(it),
			fetchedAt: now,
		})
	}
	if len(fetched) > 0 {
		r.integrate(fetched, misses, now)
	}

	return r.serve(query, now), nil
}

// missRanges returns the sub-ranges of query not covered by any fresh
// segment, merged left to right.
func (r *Cache) missRanges(query interval.Interval, now time.Time) []interval.Interval {
	var misses []interval.Interval
	cursor := query.Start
	for _, seg := range r.segments {
		if !r.fresh(seg, now) {
			continue
		}
		cov, ok := seg.covers().Clip(query)
		if !ok {
			continue
		}
		if cov.Start > cursor {
			misses = append(misses, interval.Interval{Start: cursor, End: cov.Start})
		}
		cursor = max(cursor, cov.End)
		if cursor >= query.End {
			break
		}
	}
	if cursor < query.End {
		misses = append(misses, interval.Interval{Start: cursor, End: query.End})
	}
	return misses
}

func (r *Cache) fresh(seg segment, now time.Time) bool {
	return now.Sub(seg.fetchedAt) < r.ttl
}

// integrate merges freshly fetched segments into the index. Fresh
// segments are untouched by construction (misses exclude their
// coverage); stale segments overlapping a refetched range are
// fractured so only the genuinely replaced portion goes away, and
// stale segments left with no coverage are discarded wholesale.
func (r *Cache) integrate(fetched []segment, misses []interval.Interval, now time.Time) {
	var next []segment
	for _, seg := range r.segments {
		if r.fresh(seg, now) {
			next = append(next, seg)
			continue
		}
		for _, piece := range subtract(seg.covers(), misses) {
			frag := segment{
				start:     piece.Start,
				end:       piece.End,
				spans:     overlapping(seg.spans, piece),
				fetchedAt: seg.fetchedAt,
			}
			next = append(next, frag)
			r.log.Debug("cache segment fractured",
				zap.Stringer("was", seg.covers()),
				zap.Stringer("kept", piece))
		}
	}
	next = append(next, fetched...)
	sort.Slice(next, func(i, j int) bool { return next[i].start < next[j].start })
	r.segments = next
}

// serve merges the covering segments' spans for the query range,
// clipped to it. A span straddling a segment boundary is present in
// both segments; multiplicity per distinct bounds is therefore the
// maximum seen in any single segment, which drops the straddle
// duplicate while keeping genuine same-bounds duplicates (union
// output) intact.
func (r *Cache) serve(query interval.Interval, now time.Time) timeline.Iterator {
	type entry struct {
		span  interval.Span
		count int
	}
	var order []interval.Interval
	best := map[interval.Interval]entry{}

	for _, seg := range r.segments {
		if !r.fresh(seg, now) || !seg.covers().Overlaps(query) {
			continue
		}
		local := map[interval.Interval]entry{}
		for _, s := range seg.spans {
			clipped, ok := interval.ClipSpan(s, query)
			if !ok {
				continue
			}
			b := clipped.Bounds()
			e := local[b]
			local[b] = entry{span: clipped, count: e.count + 1}
		}
		for b, e := range local {
			prev, seen := best[b]
			if !seen {
				order = append(order, b)
				best[b] = e
			} else if e.count > prev.count {
				best[b] = entry{span: prev.span, count: e.count}
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Compare(order[j]) < 0 })
	var out []interval.Span
	for _, b := range order {
		e := best[b]
		for i := 0; i < e.count; i++ {
			out = append(out, e.span)
		}
	}
	return timeline.FromSlice(out)
}

// subtract returns the pieces of iv not covered by holes, which must be
// sorted and non-overlapping.
func subtract(iv interval.Interval, holes []interval.Interval) []interval.Interval {
	var out []interval.Interval
	cursor := iv.Start
	for _, hole := range holes {
		h, ok := hole.Clip(iv)
		if !ok {
			continue
		}
		if h.Start > cursor {
			out = append(out, interval.Interval{Start: cursor, End: h.Start})
		}
		cursor = max(cursor, h.End)
	}
	if cursor < iv.End {
		out = append(out, interval.Interval{Start: cursor, End: iv.End})
	}
	return out
}

// overlapping keeps the spans touching window, unclipped: a span is
// stored as the source returned it so boundary straddlers can be
// deduplicated when served.
func overlapping(spans []interval.Span, window interval.Interval) []interval.Span {
	var out []interval.Span
	for _, s := range spans {
		if s.Bounds().Overlaps(window) {
			out = append(out, s)
		}
	}
	return out
}
