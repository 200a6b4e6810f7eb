package filter

import (
	"k8s.io/apimachinery/pkg/labels"

	"github.com/ashenfad/calgebra/pkg/interval"
)

// Labeled is implemented by rich span types that expose key/value
// metadata labels for selector matching.
type Labeled interface {
	Labels() labels.Set
}

// MatchLabels keeps spans whose labels satisfy the selector. Spans
// without labels never match.
func MatchLabels(selector labels.Selector) Filter {
	return Func(func(s interval.Span) bool {
		l, ok := s.(Labeled)
		if !ok {
			return false
		}
		return selector.Matches(l.Labels())
	})
}

// ParseSelector builds a label filter from a selector expression, e.g.
// "calendar=work,priority notin (low)".
func ParseSelector(expr string) (Filter, error) {
	selector, err := labels.Parse(expr)
	if err != nil {
		return nil, err
	}
	return MatchLabels(selector), nil
}
