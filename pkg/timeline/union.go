package timeline

import (
	"container/heap"

	"github.com/ashenfad/calgebra/pkg/interval"
)

type union struct {
	sources []Timeline
}

// Union composes timelines with set-union semantics: a k-way merge of
// the child streams ordered by (start, end). Every child span is
// emitted unchanged; duplicates across children are kept in sorted
// position. Nested unions are spliced into one fan-out at construction.
func Union(first Timeline, rest ...Timeline) Timeline {
	sources := make([]Timeline, 0, len(rest)+1)
	for _, src := range append([]Timeline{first}, rest...) {
		if u, ok := src.(*union); ok {
			sources = append(sources, u.sources...)
			continue
		}
		sources = append(sources, src)
	}
	return &union{sources: sources}
}

// Mask reports true only when every child is a mask source.
func (r *union) Mask() bool {
	for _, src := range r.sources {
		if !src.Mask() {
			return false
		}
	}
	return true
}

func (r *union) Fetch(start, end int64) (Iterator, error) {
	streams := make([]Iterator, len(r.sources))
	for i, src := range r.sources {
		it, err := src.Fetch(start, end)
		if err != nil {
			return nil, err
		}
		streams[i] = it
	}
	return Merge(streams...), nil
}

// Merge returns a sorted k-way merge of already-sorted streams. Ties on
// bounds break by stream position, keeping the merge deterministic.
func Merge(streams ...Iterator) Iterator {
	h := make(mergeHeap, 0, len(streams))
	for i, it := range streams {
		if s, ok := it.Next(); ok {
			h = append(h, mergeItem{span: s, src: it, pos: i})
		}
	}
	heap.Init(&h)

	return iterFunc(func() (interval.Span, bool) {
		if h.Len() == 0 {
			return nil, false
		}
		top := h[0]
		if next, ok := top.src.Next(); ok {
			h[0] = mergeItem{span: next, src: top.src, pos: top.pos}
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
		return top.span, true
	})
}

type mergeItem struct {
	span interval.Span
	src  Iterator
	pos  int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	if c := interval.CompareSpans(h[i].span, h[j].span); c != 0 {
		return c < 0
	}
	return h[i].pos < h[j].pos
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(mergeItem)) }

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
