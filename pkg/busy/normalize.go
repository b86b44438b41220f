package busy

import (
	"slices"
	"strings"
)

// Normalize returns the intervals sorted by start and with touching intervals
// merged, so that no output interval ends exactly where the next one begins.
//
// Only touching boundaries (End == next Start) are merged. Intervals that
// overlap without touching are kept apart; the free/busy API already merges
// overlaps per calendar. Duplicates are dropped; when they carry different
// locations, the one whose location name sorts first is kept, so the result
// does not depend on input order. The input is not modified.
func Normalize(intervals []Interval) []Interval {
	merged := make([]Interval, 0, len(intervals))
	if len(intervals) == 0 {
		return merged
	}

	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, compare)
	sorted = slices.CompactFunc(sorted, Interval.Equal)

	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start.Equal(current.End) {
			// never shrink the current interval
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

func compare(a, b Interval) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	if c := a.End.Compare(b.End); c != 0 {
		return c
	}
	return strings.Compare(a.Start.Location().String(), b.Start.Location().String())
}
