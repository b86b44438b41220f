package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/planner/pkg/auth"
	"github.com/harrisonrobin/planner/pkg/config"
	"github.com/harrisonrobin/planner/pkg/google"
	"github.com/harrisonrobin/planner/pkg/logging"
	"github.com/harrisonrobin/planner/pkg/store"
	"github.com/harrisonrobin/planner/pkg/ui"
)

// App carries everything the commands need. Fields left nil get
// production defaults.
type App struct {
	Version  string
	Settings config.Settings

	// NewProvider builds the calendar API client.
	NewProvider func(ctx context.Context, a *auth.Authenticator, logger *zap.Logger) (google.Provider, error)
	// Now is the clock used for free/busy windows.
	Now func() time.Time

	configPath string
	logLevel   string

	errOut   io.Writer
	logger   *zap.Logger
	printer  *ui.Printer
	provider google.Provider
}

// NewApp returns an App configured from the environment.
func NewApp(version string) *App {
	return &App{
		Version:  version,
		Settings: config.LoadSettings(),
	}
}

// Execute runs the CLI with os.Args and exits with its status.
func Execute(version string) {
	os.Exit(NewApp(version).Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return 0
	}

	var silent silentError
	if !errors.As(err, &silent) {
		if a.printer == nil {
			a.printer = ui.NewPrinter(stdout, stderr)
		}
		a.printer.Error(err.Error())
	}
	return 1
}

func (a *App) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "Personal scheduling helper",
		Long: `planner shows when you are busy across your Google calendars and keeps
a small local list of tasks with due dates and time estimates.`,
		Version:       a.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "planner version %s\n" .Version}}`)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to "+config.FileName+" (default: search upwards from the working directory)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")

	root.AddCommand(a.newCalendarCmd())
	root.AddCommand(a.newTaskCmd())
	root.AddCommand(a.newAuthCmd())
	root.AddCommand(a.newVersionCmd())
	return root
}

func (a *App) setup(cmd *cobra.Command) error {
	a.errOut = cmd.ErrOrStderr()
	a.printer = ui.NewPrinter(cmd.OutOrStdout(), a.errOut)

	level := a.logLevel
	if level == "" {
		level = a.Settings.LogLevel
	}
	logger, err := logging.New(cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}
	a.logger = logger

	if a.NewProvider == nil {
		a.NewProvider = dialGoogle
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	return nil
}

func dialGoogle(ctx context.Context, a *auth.Authenticator, logger *zap.Logger) (google.Provider, error) {
	return google.Dial(ctx, a, logger)
}

func (a *App) authenticator() *auth.Authenticator {
	authn := auth.New(auth.NewPaths(a.Settings.SecretsDir), a.logger)
	authn.Prompt = a.errOut
	return authn
}

// calendarProvider dials the API once per invocation.
func (a *App) calendarProvider(ctx context.Context) (google.Provider, error) {
	if a.provider != nil {
		return a.provider, nil
	}
	p, err := a.NewProvider(ctx, a.authenticator(), a.logger)
	if err != nil {
		return nil, err
	}
	a.provider = p
	return p, nil
}

func (a *App) openStore() (*store.Storage, error) {
	return store.Open(a.Settings.DBPath, a.logger)
}
