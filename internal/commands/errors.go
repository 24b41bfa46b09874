package commands

import (
	"errors"
	"fmt"
	"io"

	"plannest/internal/exitcode"
	"plannest/internal/reconcile"
	"plannest/internal/service"
	"plannest/internal/session"
)

// notLoggedIn is printed whenever a command needs a session it doesn't have.
const notLoggedIn = "error: not logged in (run: plannest login)"

// report prints err and maps it to an exit code.
// A rejected session clears the user in sess, so observers see the change.
func report(errOut io.Writer, sess *session.Store, err error) int {
	switch {
	case errors.Is(err, reconcile.ErrRefresh):
		// The change went through; only the re-fetch failed.
		fmt.Fprintf(errOut, "warning: %v\n", err)
		if errors.Is(err, service.ErrUnauthenticated) {
			return report(errOut, sess, service.ErrUnauthenticated)
		}
		return exitcode.Success
	case errors.Is(err, reconcile.ErrValidation):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, reconcile.ErrTaskNotFound), errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case isRefError(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthenticated):
		if sess != nil {
			sess.ClearUser()
		}
		fmt.Fprintln(errOut, notLoggedIn)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// reportMutation prints "ok" for a mutation that went through, including
// one whose follow-up refresh failed.
func reportMutation(out, errOut io.Writer, quiet bool, sess *session.Store, err error) int {
	if err != nil && !errors.Is(err, reconcile.ErrRefresh) {
		return report(errOut, sess, err)
	}
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
	if err != nil {
		return report(errOut, sess, err)
	}
	return exitcode.Success
}

func isRefError(err error) bool {
	return errors.Is(err, ErrTaskRefRequired) ||
		errors.Is(err, ErrInvalidTaskRef) ||
		errors.Is(err, ErrTaskOutOfRange)
}
