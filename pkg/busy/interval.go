// Package busy holds the busy-time model shared by the calendar client and the CLI.
package busy

import (
	"fmt"
	"time"
)

// DisplayLayout is the layout used when printing interval boundaries.
const DisplayLayout = "2006-01-02 15:04"

// Interval is a half-open busy range [Start, End).
// Callers guarantee Start <= End; zero-length intervals are allowed.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the amount of busy time covered by the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Equal reports whether both boundaries denote the same instants.
func (i Interval) Equal(o Interval) bool {
	return i.Start.Equal(o.Start) && i.End.Equal(o.End)
}

// In returns the interval with both boundaries expressed in loc.
func (i Interval) In(loc *time.Location) Interval {
	return Interval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

func (i Interval) String() string {
	return fmt.Sprintf("%s -> %s", i.Start.Format(DisplayLayout), i.End.Format(DisplayLayout))
}

// In converts every interval to loc. The input slice is left untouched.
func In(intervals []Interval, loc *time.Location) []Interval {
	out := make([]Interval, len(intervals))
	for n, i := range intervals {
		out[n] = i.In(loc)
	}
	return out
}

// Total sums the durations of the given intervals.
func Total(intervals []Interval) time.Duration {
	var total time.Duration
	for _, i := range intervals {
		total += i.Duration()
	}
	return total
}
