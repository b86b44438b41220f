package cmd

import (
	"github.com/spf13/cobra"
)

func (a *App) newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize planner with Google again",
		Long: `Discard the stored OAuth token and run the browser authorization flow.
Use this after changing scopes or when the refresh token was revoked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authn := a.authenticator()
			if err := authn.Reset(); err != nil {
				return calendarError(err)
			}
			if _, err := authn.Client(cmd.Context()); err != nil {
				return calendarError(err)
			}
			a.printer.Printf("Authentication successful! Token saved to %s\n", authn.Paths().Token)
			return nil
		},
	}
}
