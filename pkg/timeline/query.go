package timeline

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ashenfad/calgebra/pkg/interval"
)

// Direction selects the delivery order of query results. Descending is
// a pure re-ordering of the ascending result set.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Edge identifies which side of a query range a bound belongs to.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

// ErrBadBound is returned when a query bound cannot be coerced into
// canonical seconds.
var ErrBadBound = errors.New("timeline: unsupported query bound")

// Coercer converts an external bound representation (raw seconds, a
// timezone-aware instant) into a canonical integer bound. It runs at
// the query boundary: operators only ever see canonical bounds.
type Coercer interface {
	CoerceBound(v any, edge Edge) (int64, error)
}

// HasCoercer is implemented by sources that declare their own bound
// interpretation; Eval consults it unless overridden per query.
type HasCoercer interface {
	Coercer() Coercer
}

// DefaultCoercer accepts nil (unbounded), int, int64, and time.Time.
type DefaultCoercer struct{}

func (DefaultCoercer) CoerceBound(v any, edge Edge) (int64, error) {
	switch b := v.(type) {
	case nil:
		if edge == EdgeStart {
			return interval.NegInf, nil
		}
		return interval.PosInf, nil
	case int64:
		return b, nil
	case int:
		return int64(b), nil
	case time.Time:
		return b.Unix(), nil
	}
	return 0, errors.Wrapf(ErrBadBound, "%T", v)
}

type queryConfig struct {
	dir     Direction
	coercer Coercer
}

// Option adjusts a single Eval call.
type Option func(*queryConfig)

// WithDirection sets the delivery order (default Ascending).
func WithDirection(dir Direction) Option {
	return func(c *queryConfig) { c.dir = dir }
}

// WithCoercer overrides bound coercion for this query.
func WithCoercer(c Coercer) Option {
	return func(cfg *queryConfig) { cfg.coercer = c }
}

// Eval is the end-to-end query entry point: it coerces the bounds,
// fetches from the root, clips every span to the exact request, and
// orders the result. Bounds may be nil (unbounded), int, int64, or
// time.Time under the default coercer.
func Eval(t Timeline, start, end any, opts ...Option) ([]interval.Span, error) {
	cfg := queryConfig{coercer: nil}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.coercer == nil {
		if hc, ok := t.(HasCoercer); ok {
			cfg.coercer = hc.Coercer()
		} else {
			cfg.coercer = DefaultCoercer{}
		}
	}

	lo, err := cfg.coercer.CoerceBound(start, EdgeStart)
	if err != nil {
		return nil, errors.Wrap(err, "start bound")
	}
	hi, err := cfg.coercer.CoerceBound(end, EdgeEnd)
	if err != nil {
		return nil, errors.Wrap(err, "end bound")
	}
	window, err := interval.New(lo, hi)
	if err != nil {
		return nil, err
	}

	it, err := t.Fetch(lo, hi)
	if err != nil {
		return nil, err
	}

	var out []interval.Span
	for s, ok := it.Next(); ok; s, ok = it.Next() {
		if clipped, ok := interval.ClipSpan(s, window); ok {
			out = append(out, clipped)
		}
	}

	if cfg.dir == Descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}
