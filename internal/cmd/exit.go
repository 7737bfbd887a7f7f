package cmd

import (
	"errors"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/config"
	"github.com/chainvue/chainvue-cli/internal/login"
)

const (
	exitError    = api.ExitError
	exitUsage    = api.ExitUsage
	exitAuth     = api.ExitAuth
	exitNotFound = api.ExitNotFound
)

// ExitError carries the process exit code. Reported is set once the message
// has been shown to the user so Execute does not print it twice.
type ExitError struct {
	Code     int
	Err      error
	Reported bool
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *ExitError
	if errors.As(err, &ee) && ee != nil {
		if ee.Code <= 0 {
			return exitError
		}

		return ee.Code
	}

	return exitCodeFor(err)
}

func reported(err error) bool {
	var ee *ExitError

	return errors.As(err, &ee) && ee != nil && ee.Reported
}

// exitCodeFor maps domain errors to exit codes.
func exitCodeFor(err error) int {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}

	switch {
	case errors.Is(err, auth.ErrInvalidAPIKey):
		return exitUsage
	case errors.Is(err, login.ErrKeyRejected),
		errors.Is(err, auth.ErrNotAuthenticated),
		errors.Is(err, auth.ErrCredentialsNotFound):
		return exitAuth
	case errors.Is(err, config.ErrProfileNotFound):
		return exitNotFound
	default:
		return exitError
	}
}
