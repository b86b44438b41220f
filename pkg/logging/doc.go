// Package logging builds the zap logger used for diagnostics.
//
// Diagnostics always go to stderr so that command output on stdout stays
// stable for scripts. Components receive a *zap.Logger explicitly; there is
// no package-level logger.
package logging
