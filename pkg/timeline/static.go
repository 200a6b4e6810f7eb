package timeline

import (
	"sort"

	"github.com/ashenfad/calgebra/pkg/interval"
)

type static struct {
	spans []interval.Span
	// maxEnd[i] is the largest end among spans[:i+1]; it lets Fetch
	// skip the prefix that cannot reach the query start.
	maxEnd []int64
	mask   bool
}

func newStatic(spans []interval.Span, mask bool) Timeline {
	sorted := make([]interval.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return interval.CompareSpans(sorted[i], sorted[j]) < 0
	})

	maxEnd := make([]int64, len(sorted))
	running := interval.NegInf
	for i, s := range sorted {
		if e := s.Bounds().End; e > running {
			running = e
		}
		maxEnd[i] = running
	}
	return &static{spans: sorted, maxEnd: maxEnd, mask: mask}
}

// New returns an immutable timeline over a fixed set of spans, treated
// as metadata-rich. Spans are sorted at construction.
func New(spans ...interval.Span) Timeline {
	return newStatic(spans, false)
}

// NewMask returns an immutable timeline over bare mask intervals.
func NewMask(intervals ...interval.Interval) Timeline {
	spans := make([]interval.Span, len(intervals))
	for i, iv := range intervals {
		spans[i] = iv
	}
	return newStatic(spans, true)
}

func (r *static) Mask() bool { return r.mask }

func (r *static) Fetch(start, end int64) (Iterator, error) {
	if len(r.spans) == 0 {
		return Empty(), nil
	}

	// First span whose running max end reaches past the query start;
	// everything before it ends too early to overlap.
	lo := sort.Search(len(r.spans), func(i int) bool {
		return r.maxEnd[i] > start
	})
	// First span starting at or after the query end.
	hi := sort.Search(len(r.spans), func(i int) bool {
		return r.spans[i].Bounds().Start >= end
	})
	if lo >= hi {
		return Empty(), nil
	}

	window := r.spans[lo:hi]
	i := 0
	return iterFunc(func() (interval.Span, bool) {
		for i < len(window) {
			s := window[i]
			i++
			if s.Bounds().End <= start {
				continue
			}
			return s, true
		}
		return nil, false
	}), nil
}
