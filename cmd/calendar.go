package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/planner/pkg/busy"
	"github.com/harrisonrobin/planner/pkg/config"
	"github.com/harrisonrobin/planner/pkg/google"
	"github.com/harrisonrobin/planner/pkg/logging"
)

// Calendar scopes accepted by --calendars.
const (
	scopePrimary  = "primary"
	scopeSelected = "selected"
	scopeAll      = "all"
	scopeWork     = "work"
)

var calendarScopes = []string{scopePrimary, scopeSelected, scopeAll, scopeWork}

func (a *App) newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Inspect Google calendars and free/busy data",
	}
	cmd.AddCommand(a.newCalendarListCmd())
	cmd.AddCommand(a.newCalendarBusyCmd())
	cmd.AddCommand(a.newCalendarWorkCmd())
	return cmd
}

func (a *App) newCalendarListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the calendars of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := a.calendarProvider(cmd.Context())
			if err != nil {
				return calendarError(err)
			}
			calendars, err := provider.ListCalendars(cmd.Context())
			if err != nil {
				return calendarError(err)
			}
			for _, c := range calendars {
				primary := ""
				if c.Primary {
					primary = " primary"
				}
				a.printer.Printf("selected=%t%s %s  %s\n", c.Selected, primary, c.Summary, c.ID)
			}
			return nil
		},
	}
}

type busyOptions struct {
	days  int
	scope string
	raw   bool
}

func (a *App) newCalendarBusyCmd() *cobra.Command {
	opts := busyOptions{}
	cmd := &cobra.Command{
		Use:   "busy",
		Short: "Print merged busy intervals for the coming days",
		Long: `Query free/busy data for a set of calendars and print the busy intervals,
sorted and with back-to-back blocks merged, in the configured timezone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBusy(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.days, "days", 7, "number of days to look ahead (>= 1)")
	cmd.Flags().StringVar(&opts.scope, "calendars", scopeSelected,
		"calendars to include: "+strings.Join(calendarScopes, ", "))
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the raw API response as JSON")
	return cmd
}

func (a *App) runBusy(cmd *cobra.Command, opts busyOptions) error {
	if opts.days < 1 {
		return fmt.Errorf("invalid value for --days: %d is not >= 1", opts.days)
	}
	if !slices.Contains(calendarScopes, opts.scope) {
		return fmt.Errorf("invalid value for --calendars: %q is not one of %s",
			opts.scope, strings.Join(calendarScopes, ", "))
	}

	loc, err := a.Settings.Location()
	if err != nil {
		return calendarError(err)
	}

	ids, err := a.resolveCalendarIDs(cmd, opts.scope)
	if err != nil {
		return calendarError(err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("No calendars found for mode '%s'.", opts.scope)
	}

	provider, err := a.calendarProvider(cmd.Context())
	if err != nil {
		return calendarError(err)
	}
	resp, err := provider.QueryFreeBusy(cmd.Context(), google.FreeBusyQuery{
		Days:        opts.days,
		CalendarIDs: ids,
		TimeZone:    loc,
		Now:         a.Now(),
	})
	if err != nil {
		return calendarError(err)
	}

	if opts.raw {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"calendar_ids": ids,
			"freebusy":     resp,
		})
	}

	result, err := google.ParseBusy(resp, ids, loc)
	if result != nil {
		for _, failure := range result.Failures {
			a.logger.Debug("no busy data", logging.Calendar(failure.CalendarID),
				zap.Bool("missing", failure.Missing), zap.Strings("reasons", failure.Reasons))
			a.printer.Warn("%s", failure.Error())
		}
	}
	if errors.Is(err, google.ErrAllCalendarsFailed) {
		return silentError{err: err}
	}
	if err != nil {
		return calendarError(err)
	}

	a.logger.Debug("busy intervals",
		zap.Int("count", len(result.Intervals)),
		zap.Duration("total", busy.Total(result.Intervals)))
	if len(result.Intervals) == 0 {
		a.printer.Printf("No busy intervals found in the next %d days.\n", opts.days)
		return nil
	}
	for _, interval := range result.Intervals {
		a.printer.Println(interval.String())
	}
	return nil
}

// resolveCalendarIDs maps a --calendars scope to concrete calendar ids.
// The work scope reads the config file before anything touches the network.
func (a *App) resolveCalendarIDs(cmd *cobra.Command, scope string) ([]string, error) {
	switch scope {
	case scopePrimary:
		return []string{google.PrimaryCalendarID}, nil
	case scopeWork:
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return nil, err
		}
		return cfg.Calendar.WorkCalendarIDs, nil
	}

	provider, err := a.calendarProvider(cmd.Context())
	if err != nil {
		return nil, err
	}
	calendars, err := provider.ListCalendars(cmd.Context())
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, c := range calendars {
		if scope == scopeAll || c.Selected {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (a *App) newCalendarWorkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "work",
		Short: "Print the work calendars from " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return calendarError(err)
			}
			ids := cfg.Calendar.WorkCalendarIDs
			if len(ids) == 0 {
				return errors.New("No work calendars configured.")
			}

			summaries := a.calendarSummaries(cmd)
			for _, id := range ids {
				if summary, ok := summaries[id]; ok && summary != "" {
					a.printer.Printf("%s  %s\n", id, summary)
				} else {
					a.printer.Println(id)
				}
			}
			return nil
		},
	}
}

// calendarSummaries is best effort: the ids alone are still useful output.
func (a *App) calendarSummaries(cmd *cobra.Command) map[string]string {
	provider, err := a.calendarProvider(cmd.Context())
	if err != nil {
		a.logger.Debug("calendar list unavailable", zap.Error(err))
		return nil
	}
	calendars, err := provider.ListCalendars(cmd.Context())
	if err != nil {
		a.logger.Debug("calendar list unavailable", zap.Error(err))
		return nil
	}
	summaries := make(map[string]string, len(calendars))
	for _, c := range calendars {
		summaries[c.ID] = c.Summary
	}
	return summaries
}
