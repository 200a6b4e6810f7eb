package interval

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/tj/assert"
)

func TestNew(t *testing.T) {
	cases := map[string]struct {
		start, end  int64
		expectedErr bool
	}{
		"Normal":         {start: 0, end: 10},
		"Empty":          {start: 5, end: 5},
		"Inverted":       {start: 10, end: 0, expectedErr: true},
		"OpenStart":      {start: NegInf, end: 0},
		"OpenEnd":        {start: 0, end: PosInf},
		"FullyUnbounded": {start: NegInf, end: PosInf},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			iv, err := New(tc.start, tc.end)
			if tc.expectedErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvertedBounds))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.start, iv.Start)
			assert.Equal(t, tc.end, iv.End)
		})
	}
}

func TestOverlaps(t *testing.T) {
	cases := map[string]struct {
		a, b     Interval
		expected bool
	}{
		"Overlapping":    {a: MustNew(0, 10), b: MustNew(5, 15), expected: true},
		"Touching":       {a: MustNew(0, 10), b: MustNew(10, 20), expected: false},
		"Disjoint":       {a: MustNew(0, 10), b: MustNew(20, 30), expected: false},
		"Contained":      {a: MustNew(0, 30), b: MustNew(10, 20), expected: true},
		"UnboundedLeft":  {a: Until(10), b: MustNew(5, 15), expected: true},
		"UnboundedBoth":  {a: All(), b: MustNew(5, 15), expected: true},
		"UnboundedEmpty": {a: From(20), b: Until(20), expected: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.expected, tc.b.Overlaps(tc.a))
		})
	}
}

func TestClip(t *testing.T) {
	cases := map[string]struct {
		in, window Interval
		expected   Interval
		disjoint   bool
	}{
		"Inside":       {in: MustNew(5, 10), window: MustNew(0, 20), expected: MustNew(5, 10)},
		"OverlapLeft":  {in: MustNew(0, 10), window: MustNew(5, 20), expected: MustNew(5, 10)},
		"OverlapRight": {in: MustNew(10, 30), window: MustNew(5, 20), expected: MustNew(10, 20)},
		"Covering":     {in: MustNew(0, 100), window: MustNew(20, 30), expected: MustNew(20, 30)},
		"Disjoint":     {in: MustNew(0, 10), window: MustNew(10, 20), disjoint: true},
		"Unbounded":    {in: All(), window: MustNew(5, 15), expected: MustNew(5, 15)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := tc.in.Clip(tc.window)
			if tc.disjoint {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCompare(t *testing.T) {
	cases := map[string]struct {
		a, b     Interval
		expected int
	}{
		"Equal":          {a: MustNew(0, 10), b: MustNew(0, 10), expected: 0},
		"ByStart":        {a: MustNew(0, 10), b: MustNew(5, 10), expected: -1},
		"ByEnd":          {a: MustNew(0, 10), b: MustNew(0, 20), expected: -1},
		"SentinelStart":  {a: Until(10), b: MustNew(0, 10), expected: -1},
		"SentinelEnd":    {a: MustNew(0, 10), b: From(0), expected: -1},
		"SentinelsEqual": {a: All(), b: All(), expected: 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Compare(tc.b))
			assert.Equal(t, -tc.expected, tc.b.Compare(tc.a))
		})
	}
}

func TestDuration(t *testing.T) {
	d, ok := MustNew(10, 25).Duration()
	assert.True(t, ok)
	assert.Equal(t, int64(15), d)

	_, ok = From(10).Duration()
	assert.False(t, ok)
	_, ok = Until(10).Duration()
	assert.False(t, ok)
}

type tagged struct {
	Interval
	tag string
}

func (r tagged) WithBounds(iv Interval) Span {
	r.Interval = iv
	return r
}

func TestClipSpanPreservesMetadata(t *testing.T) {
	s := tagged{Interval: MustNew(0, 100), tag: "standup"}

	clipped, ok := ClipSpan(s, MustNew(10, 20))
	assert.True(t, ok)
	got, isTagged := clipped.(tagged)
	assert.True(t, isTagged)
	assert.Equal(t, "standup", got.tag)
	assert.Equal(t, MustNew(10, 20), got.Bounds())

	// No clipping needed returns the same span.
	same, ok := ClipSpan(s, MustNew(0, 100))
	assert.True(t, ok)
	assert.Equal(t, Span(s), same)

	_, ok = ClipSpan(s, MustNew(200, 300))
	assert.False(t, ok)
}
