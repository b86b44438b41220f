package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

// PrimaryCalendarID is the alias the API accepts for the user's own calendar.
const PrimaryCalendarID = "primary"

// ErrNoCalendars is returned when a free/busy query names no calendar.
var ErrNoCalendars = errors.New("no calendar IDs provided for FreeBusy query")

// CalendarInfo is an entry of the user's calendar list.
type CalendarInfo struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	Selected bool   `json:"selected"`
	Primary  bool   `json:"primary"`
}

// FreeBusyQuery describes the window [Now, Now+Days) to ask about.
type FreeBusyQuery struct {
	Days        int
	CalendarIDs []string
	TimeZone    *time.Location
	Now         time.Time
}

// Window returns the query bounds in the query timezone, truncated to seconds.
func (q FreeBusyQuery) Window() (time.Time, time.Time) {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	loc := q.TimeZone
	if loc == nil {
		loc = time.Local
	}
	start := now.In(loc).Truncate(time.Second)
	return start, start.AddDate(0, 0, q.Days)
}

// Provider is the part of the Calendar API the planner talks to.
type Provider interface {
	ListCalendars(ctx context.Context) ([]CalendarInfo, error)
	QueryFreeBusy(ctx context.Context, q FreeBusyQuery) (*calendar.FreeBusyResponse, error)
}

// Client is a Google Calendar API client.
type Client struct {
	srv    *calendar.Service
	logger *zap.Logger
}

var _ Provider = (*Client)(nil)

// ListCalendars returns every calendar on the user's list, following pagination.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	var calendars []CalendarInfo
	err := c.srv.CalendarList.List().Pages(ctx, func(page *calendar.CalendarList) error {
		for _, item := range page.Items {
			calendars = append(calendars, CalendarInfo{
				ID:       item.Id,
				Summary:  item.Summary,
				Selected: item.Selected,
				Primary:  item.Primary,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	c.logger.Debug("listed calendars", zap.Int("count", len(calendars)))
	return calendars, nil
}

// QueryFreeBusy asks the API for the busy blocks of the given calendars.
func (c *Client) QueryFreeBusy(ctx context.Context, q FreeBusyQuery) (*calendar.FreeBusyResponse, error) {
	if len(q.CalendarIDs) == 0 {
		return nil, ErrNoCalendars
	}

	timeMin, timeMax := q.Window()
	items := make([]*calendar.FreeBusyRequestItem, len(q.CalendarIDs))
	for i, id := range q.CalendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	req := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}
	if q.TimeZone != nil {
		req.TimeZone = q.TimeZone.String()
	}

	resp, err := c.srv.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}
	c.logger.Debug("queried freebusy",
		zap.Strings("calendars", q.CalendarIDs),
		zap.String("time_min", req.TimeMin),
		zap.String("time_max", req.TimeMax))
	return resp, nil
}
