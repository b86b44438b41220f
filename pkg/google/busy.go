package google

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/planner/pkg/busy"
)

// ErrAllCalendarsFailed is returned by ParseBusy when no calendar produced data.
var ErrAllCalendarsFailed = errors.New("free/busy data unavailable for every calendar")

// CalendarFailure records why a calendar contributed no busy data.
type CalendarFailure struct {
	CalendarID string
	Missing    bool
	Reasons    []string
}

func (f CalendarFailure) Error() string {
	if f.Missing {
		return fmt.Sprintf("missing FreeBusy data for %s.", f.CalendarID)
	}
	return fmt.Sprintf("FreeBusy error for %s: %s", f.CalendarID, strings.Join(f.Reasons, ", "))
}

// BusyResult is the typed form of a free/busy response.
type BusyResult struct {
	Intervals []busy.Interval
	Failures  []CalendarFailure
}

// ParseBusy converts resp into normalized intervals expressed in loc.
// Calendars the response lacks or reports errors for are collected as
// failures; if every requested calendar failed, ErrAllCalendarsFailed is
// returned alongside the result.
func ParseBusy(resp *calendar.FreeBusyResponse, calendarIDs []string, loc *time.Location) (*BusyResult, error) {
	result := &BusyResult{}
	var calendars map[string]calendar.FreeBusyCalendar
	if resp != nil {
		calendars = resp.Calendars
	}

	var intervals []busy.Interval
	for _, id := range calendarIDs {
		data, ok := calendars[id]
		if !ok {
			result.Failures = append(result.Failures, CalendarFailure{CalendarID: id, Missing: true})
			continue
		}
		if len(data.Errors) > 0 {
			result.Failures = append(result.Failures, CalendarFailure{CalendarID: id, Reasons: reasons(data.Errors)})
			continue
		}

		for _, slot := range data.Busy {
			interval, err := parseSlot(slot)
			if err != nil {
				return nil, fmt.Errorf("calendar %s: %w", id, err)
			}
			intervals = append(intervals, interval)
		}
	}

	result.Intervals = busy.In(busy.Normalize(intervals), loc)
	if len(calendarIDs) > 0 && len(result.Failures) == len(calendarIDs) {
		return result, ErrAllCalendarsFailed
	}
	return result, nil
}

func parseSlot(slot *calendar.TimePeriod) (busy.Interval, error) {
	if slot == nil {
		return busy.Interval{}, errors.New("empty busy slot")
	}
	start, err := time.Parse(time.RFC3339, slot.Start)
	if err != nil {
		return busy.Interval{}, fmt.Errorf("invalid busy start %q: %w", slot.Start, err)
	}
	end, err := time.Parse(time.RFC3339, slot.End)
	if err != nil {
		return busy.Interval{}, fmt.Errorf("invalid busy end %q: %w", slot.End, err)
	}
	if end.Before(start) {
		return busy.Interval{}, fmt.Errorf("busy slot ends before it starts: %s > %s", slot.Start, slot.End)
	}
	return busy.Interval{Start: start, End: end}, nil
}

func reasons(errs []*calendar.Error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		if e == nil {
			continue
		}
		if e.Domain != "" {
			out = append(out, e.Domain+"/"+e.Reason)
		} else {
			out = append(out, e.Reason)
		}
	}
	return out
}
