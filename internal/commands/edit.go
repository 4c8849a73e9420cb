package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
	"todos/internal/session"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	viewFlags
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"update"} }
func (c *EditCmd) Synopsis() string   { return "Replace the text of a todo" }
func (c *EditCmd) Usage() string      { return "todos edit [--filter <f>] [--search <text>] <ref> <text...>" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.viewFlags.register(fs)
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	view, err := c.view()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	item, code := lookupRef(sess, view, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: todo text is required")
		return exitcode.UserError
	}

	p, err := sess.SubmitUpdate(ctx, item.ID, service.TextField(strings.Join(args[1:], " ")))
	return submitted(ctx, cfg, p, err, out, errOut)
}
