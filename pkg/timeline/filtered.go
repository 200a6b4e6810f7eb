package timeline

import (
	"github.com/ashenfad/calgebra/pkg/interval"
)

type filtered struct {
	source Timeline
	pred   Predicate
}

// Filtered passes through only the child spans satisfying pred,
// otherwise unmodified. Predicates combine with each other via the
// filter package's And/Or; they never combine with timelines directly.
func Filtered(source Timeline, pred Predicate) Timeline {
	return &filtered{source: source, pred: pred}
}

// Mask follows the source: filtering does not change span shape.
func (r *filtered) Mask() bool { return r.source.Mask() }

func (r *filtered) Fetch(start, end int64) (Iterator, error) {
	src, err := r.source.Fetch(start, end)
	if err != nil {
		return nil, err
	}
	return iterFunc(func() (interval.Span, bool) {
		for {
			s, ok := src.Next()
			if !ok {
				return nil, false
			}
			if r.pred.Keep(s) {
				return s, true
			}
		}
	}), nil
}
