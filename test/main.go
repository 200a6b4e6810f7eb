package main

import (
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/ashenfad/calgebra/pkg/cache"
	"github.com/ashenfad/calgebra/pkg/filter"
	"github.com/ashenfad/calgebra/pkg/interval"
	"github.com/ashenfad/calgebra/pkg/metrics"
	"github.com/ashenfad/calgebra/pkg/recur"
	"github.com/ashenfad/calgebra/pkg/timeline"
	"github.com/ashenfad/calgebra/pkg/transform"
)

type meeting struct {
	interval.Interval
	title    string
	calendar string
}

func (m meeting) WithBounds(iv interval.Interval) interval.Span {
	m.Interval = iv
	return m
}

func (m meeting) Labels() labels.Set {
	return labels.Set{"calendar": m.calendar}
}

func main() {
	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	at := func(h float64) int64 {
		return day.Add(time.Duration(h * float64(time.Hour))).Unix()
	}

	work := timeline.New(
		meeting{Interval: interval.MustNew(at(9), at(9.5)), title: "standup", calendar: "work"},
		meeting{Interval: interval.MustNew(at(11), at(12)), title: "design review", calendar: "work"},
		meeting{Interval: interval.MustNew(at(15), at(16)), title: "1:1", calendar: "work"},
	)
	personal := timeline.New(
		meeting{Interval: interval.MustNew(at(12), at(13)), title: "lunch", calendar: "personal"},
	)

	busy := timeline.Union(work, personal)

	hours, err := recur.BusinessHours("UTC", 9, 17)
	if err != nil {
		panic(err)
	}

	// Free time during business hours, ignoring gaps under 15 minutes.
	free := timeline.Intersection(timeline.Complement(busy), hours)
	free, err = transform.MergeWithin(free, 15*interval.Minute)
	if err != nil {
		panic(err)
	}

	spans, err := timeline.Eval(free, day, day.Add(24*time.Hour))
	if err != nil {
		panic(err)
	}
	fmt.Println("free slots:")
	for _, s := range spans {
		fmt.Println("  ", s.Bounds())
	}

	longest, err := metrics.MaxDuration(free, at(0), at(24))
	if err != nil {
		panic(err)
	}
	fmt.Println("longest free slot:", longest.Bounds())

	// Only the long work meetings, via a label selector plus a duration bound.
	sel, err := filter.ParseSelector("calendar=work")
	if err != nil {
		panic(err)
	}
	long := timeline.Filtered(busy, filter.And(
		sel,
		filter.GTE(filter.Duration(interval.Minute), 45),
	))
	spans, err = timeline.Eval(long, nil, nil)
	if err != nil {
		panic(err)
	}
	for _, s := range spans {
		fmt.Println("long work meeting:", s.(meeting).title, s.Bounds())
	}

	// Cache the composed tree; the second query is served from memory.
	cached, err := cache.New(free, 5*time.Minute)
	if err != nil {
		panic(err)
	}
	for i := 0; i < 2; i++ {
		n, err := metrics.CountIntervals(cached, at(0), at(24))
		if err != nil {
			panic(err)
		}
		fmt.Println("free slot count:", n)
	}
}
