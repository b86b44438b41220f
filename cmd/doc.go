// Package cmd implements the planner command-line interface.
//
// Commands:
//   - calendar list: show the calendars of the signed-in account
//   - calendar busy: print normalized busy intervals for a set of calendars
//   - calendar work: print the configured work calendars
//   - task add|list|delete: manage the local task list
//   - auth: run the OAuth authorization again
//   - version: print the version
package cmd
