package due

import (
	"sort"
	"time"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
)

// SortByDue orders tasks by the start of their due period. Tasks due in the
// same instant list the finer granularity first (Monday before "this week"),
// then by name. Undated tasks go last.
func SortByDue(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.HasDue() != b.HasDue() {
			return a.HasDue()
		}
		if !a.HasDue() {
			return a.Name < b.Name
		}
		if c := a.Due.Compare(*b.Due); c != 0 {
			return c < 0
		}
		if c := fuzzy.Compare(a.Due.Granularity(), b.Due.Granularity()); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	})
}

// InRange returns the tasks due from the start of from up to the end of to.
// Nil bounds are open. Undated tasks are never in range.
func InRange(tasks []Task, from, to *fuzzy.Time) ([]Task, error) {
	var lower, upper time.Time
	if from != nil {
		lower = from.Time()
	}
	bounded := false
	if to != nil {
		next, err := to.Next()
		if err != nil {
			return nil, err
		}
		if to.Granularity() != fuzzy.Forever {
			upper = next.Time()
			bounded = true
		}
	}

	var result []Task
	for _, t := range tasks {
		if !t.HasDue() {
			continue
		}
		start := t.Due.Time()
		if from != nil && start.Before(lower) {
			continue
		}
		if bounded && !start.Before(upper) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// DueWithin returns the tasks whose due period lies entirely inside period.
// A task due "this week" is not within a month when that week spills into
// the next month, even if it starts inside it; see Overlapping.
func DueWithin(tasks []Task, period fuzzy.Time) []Task {
	var result []Task
	for _, t := range tasks {
		if t.HasDue() && within(*t.Due, period) {
			result = append(result, t)
		}
	}
	return result
}

// Overlapping returns the tasks whose due period intersects period without
// lying entirely inside it.
func Overlapping(tasks []Task, period fuzzy.Time) []Task {
	var result []Task
	for _, t := range tasks {
		if t.HasDue() && intersects(*t.Due, period) && !within(*t.Due, period) {
			result = append(result, t)
		}
	}
	return result
}

// GroupByDue collects task IDs per distinct due period, in due order.
func GroupByDue(tasks []Task) []DueOrder {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	SortByDue(sorted)

	var orders []DueOrder
	for _, t := range sorted {
		if !t.HasDue() {
			continue
		}
		if n := len(orders); n > 0 && orders[n-1].Due.Equal(*t.Due) {
			orders[n-1].TaskIDs = append(orders[n-1].TaskIDs, t.ID)
			continue
		}
		orders = append(orders, DueOrder{Due: *t.Due, TaskIDs: []string{t.ID}})
	}
	return orders
}

func within(inner, outer fuzzy.Time) bool {
	if !outer.Contains(inner.Time()) {
		return false
	}
	// Squarely fitting granularities cannot cross the outer boundary.
	return inner.Granularity().FitsSquarelyIn(outer.Granularity()) || endsWithin(inner, outer)
}

// endsWithin reports whether inner, which starts inside outer, also ends
// inside it.
func endsWithin(inner, outer fuzzy.Time) bool {
	outerEnd, bounded := outer.End()
	if !bounded {
		return true
	}
	innerEnd, ok := inner.End()
	if !ok {
		return false
	}
	return !innerEnd.After(outerEnd)
}

func intersects(a, b fuzzy.Time) bool {
	aEnd, aBounded := a.End()
	bEnd, bBounded := b.End()
	if aBounded && !aEnd.After(b.Time()) {
		return false
	}
	if bBounded && !bEnd.After(a.Time()) {
		return false
	}
	return true
}
