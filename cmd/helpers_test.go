package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/planner/pkg/auth"
	"github.com/harrisonrobin/planner/pkg/config"
	"github.com/harrisonrobin/planner/pkg/google"
)

var testNow = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

type fakeProvider struct {
	calendars []google.CalendarInfo
	listErr   error
	resp      *calendar.FreeBusyResponse
	queryErr  error
	queries   []google.FreeBusyQuery
}

func (f *fakeProvider) ListCalendars(ctx context.Context) ([]google.CalendarInfo, error) {
	return f.calendars, f.listErr
}

func (f *fakeProvider) QueryFreeBusy(ctx context.Context, q google.FreeBusyQuery) (*calendar.FreeBusyResponse, error) {
	f.queries = append(f.queries, q)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.resp, nil
}

type harness struct {
	t        *testing.T
	settings config.Settings
	provider google.Provider
	dials    int
}

func newHarness(t *testing.T, provider google.Provider) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		t: t,
		settings: config.Settings{
			DBPath:     filepath.Join(dir, "data", "planner.db"),
			SecretsDir: filepath.Join(dir, "secrets"),
			TimeZone:   "UTC",
		},
		provider: provider,
	}
}

type result struct {
	stdout string
	stderr string
	code   int
}

func (h *harness) run(args ...string) result {
	h.t.Helper()
	app := &App{
		Version:  "test",
		Settings: h.settings,
		NewProvider: func(ctx context.Context, a *auth.Authenticator, logger *zap.Logger) (google.Provider, error) {
			h.dials++
			if h.provider == nil {
				return nil, errors.New("no credentials")
			}
			return h.provider, nil
		},
		Now: func() time.Time { return testNow },
	}

	var stdout, stderr bytes.Buffer
	code := app.Run(context.Background(), args, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}
