package timeline

import (
	"github.com/ashenfad/calgebra/pkg/interval"
)

// meeting is a rich span fixture: an interval plus metadata that
// clone-and-clip must preserve.
type meeting struct {
	interval.Interval
	title string
}

func (r meeting) WithBounds(iv interval.Interval) interval.Span {
	r.Interval = iv
	return r
}

func iv(start, end int64) interval.Interval {
	return interval.Interval{Start: start, End: end}
}

// bounds projects spans onto their intervals for comparison. An empty
// result stays nil so tables can expect nil for no output.
func bounds(spans []interval.Span) []interval.Interval {
	var out []interval.Interval
	for _, s := range spans {
		out = append(out, s.Bounds())
	}
	return out
}

// fetchBounds runs a raw Fetch (no clipping) and projects the result.
func fetchBounds(t Timeline, start, end int64) ([]interval.Interval, error) {
	it, err := t.Fetch(start, end)
	if err != nil {
		return nil, err
	}
	return bounds(Collect(it)), nil
}

// countingTimeline records Fetch calls; used to assert evaluation is
// deferred until queried and repeated per query.
type countingTimeline struct {
	inner Timeline
	calls int
}

func (r *countingTimeline) Mask() bool { return r.inner.Mask() }

func (r *countingTimeline) Fetch(start, end int64) (Iterator, error) {
	r.calls++
	return r.inner.Fetch(start, end)
}
