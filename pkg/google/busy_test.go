package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func period(start, end string) *calendar.TimePeriod {
	return &calendar.TimePeriod{Start: start, End: end}
}

func TestParseBusyMergesAcrossCalendars(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	resp := &calendar.FreeBusyResponse{Calendars: map[string]calendar.FreeBusyCalendar{
		"cal-1": {Busy: []*calendar.TimePeriod{
			period("2024-01-01T16:00:00Z", "2024-01-01T17:00:00Z"),
		}},
		"cal-2": {Busy: []*calendar.TimePeriod{
			period("2024-01-01T10:00:00-05:00", "2024-01-01T11:00:00-05:00"),
			period("2024-01-02T09:00:00-05:00", "2024-01-02T09:30:00-05:00"),
		}},
	}}

	result, err := ParseBusy(resp, []string{"cal-1", "cal-2"}, ny)
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Intervals, 2)
	assert.Equal(t, "2024-01-01 10:00 -> 2024-01-01 12:00", result.Intervals[0].String())
	assert.Equal(t, "2024-01-02 09:00 -> 2024-01-02 09:30", result.Intervals[1].String())
	assert.Equal(t, ny, result.Intervals[0].Start.Location())
}

func TestParseBusyPartialFailure(t *testing.T) {
	resp := &calendar.FreeBusyResponse{Calendars: map[string]calendar.FreeBusyCalendar{
		"cal-1": {Errors: []*calendar.Error{{Domain: "global", Reason: "notFound"}}},
		"cal-2": {Busy: []*calendar.TimePeriod{period("2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z")}},
	}}

	result, err := ParseBusy(resp, []string{"cal-1", "cal-2", "cal-3"}, time.UTC)
	require.NoError(t, err)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "FreeBusy error for cal-1: global/notFound", result.Failures[0].Error())
	assert.Equal(t, "missing FreeBusy data for cal-3.", result.Failures[1].Error())
	assert.Len(t, result.Intervals, 1)
}

func TestParseBusyAllFailed(t *testing.T) {
	resp := &calendar.FreeBusyResponse{Calendars: map[string]calendar.FreeBusyCalendar{
		"cal-1": {Errors: []*calendar.Error{{Reason: "notFound"}}},
	}}

	result, err := ParseBusy(resp, []string{"cal-1", "cal-2"}, time.UTC)
	assert.ErrorIs(t, err, ErrAllCalendarsFailed)
	require.NotNil(t, result)
	assert.Len(t, result.Failures, 2)
	assert.Empty(t, result.Intervals)
}

func TestParseBusyRejectsBadSlots(t *testing.T) {
	tests := map[string]*calendar.TimePeriod{
		"bad start": period("yesterday", "2024-01-01T11:00:00Z"),
		"bad end":   period("2024-01-01T11:00:00Z", "later"),
		"reversed":  period("2024-01-01T12:00:00Z", "2024-01-01T11:00:00Z"),
	}
	for name, slot := range tests {
		t.Run(name, func(t *testing.T) {
			resp := &calendar.FreeBusyResponse{Calendars: map[string]calendar.FreeBusyCalendar{
				"cal-1": {Busy: []*calendar.TimePeriod{slot}},
			}}
			_, err := ParseBusy(resp, []string{"cal-1"}, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestParseBusyEmpty(t *testing.T) {
	result, err := ParseBusy(&calendar.FreeBusyResponse{}, nil, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, result.Intervals)
}
