package cmd

// prefixedError renders as "<prefix>: <err>", the way the CLI reports
// failures of a command group.
type prefixedError struct {
	prefix string
	err    error
}

func (e prefixedError) Error() string {
	return e.prefix + ": " + e.err.Error()
}

func (e prefixedError) Unwrap() error {
	return e.err
}

func calendarError(err error) error {
	return prefixedError{prefix: "Calendar error", err: err}
}

func taskError(err error) error {
	return prefixedError{prefix: "Task error", err: err}
}

// silentError makes the command fail without printing anything further;
// the details were already reported.
type silentError struct {
	err error
}

func (e silentError) Error() string {
	return e.err.Error()
}

func (e silentError) Unwrap() error {
	return e.err
}
