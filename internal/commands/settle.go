package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todos/internal/config"
	"todos/internal/coordinator"
	"todos/internal/exitcode"
	"todos/internal/service"
	"todos/internal/session"
	"todos/internal/store"
)

// submitted waits for a submitted mutation and reports its outcome.
// submitErr is the error returned by the session before anything was applied.
func submitted(ctx context.Context, cfg *config.Config, p *coordinator.Pending, submitErr error, out, errOut io.Writer) int {
	if submitErr != nil {
		return reportError(errOut, submitErr)
	}
	if _, err := p.Wait(ctx); err != nil {
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// reportError prints err and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(errOut, "error: %s\n", verr.Reason)
		return exitcode.UserError
	case service.IsTransport(err):
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	case errors.Is(err, service.ErrNotFound), errors.Is(err, ErrOutOfRange):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(errOut, "error: interrupted")
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
}

// lookupRef parses args[0] as a todo reference and resolves it against v.
func lookupRef(sess *session.Session, v store.View, args []string, errOut io.Writer) (service.Item, int) {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: todo reference required")
		return service.Item{}, exitcode.UserError
	}
	ref, err := ParseItemRef(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Item{}, exitcode.UserError
	}
	item, err := ref.Resolve(sess, v)
	if err != nil {
		fmt.Fprintf(errOut, "error: todo not found: %s\n", ref)
		return service.Item{}, exitcode.UserError
	}
	return item, exitcode.Success
}
