package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/output"
	"todos/internal/session"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command. Ordering is local to the session and
// never sent to the remote store; the resulting view is printed.
type MoveCmd struct {
	viewFlags
}

func (c *MoveCmd) Name() string       { return "move" }
func (c *MoveCmd) Aliases() []string  { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string   { return "Move a todo to another position" }
func (c *MoveCmd) Usage() string      { return "todos move [--filter <f>] [--search <text>] <from> <to>" }
func (c *MoveCmd) NeedsBackend() bool { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {
	c.viewFlags.register(fs)
}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: two positions required")
		return exitcode.UserError
	}

	view, err := c.view()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	visible := len(sess.ListVisible(view))
	var pos [2]int
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			fmt.Fprintf(errOut, "error: invalid position: %s\n", arg)
			return exitcode.UserError
		}
		if n > visible {
			fmt.Fprintf(errOut, "error: position out of range: %d\n", n)
			return exitcode.UserError
		}
		pos[i] = n
	}

	if pos[0] != pos[1] {
		sess.SubmitReorder(view, pos[0]-1, pos[1]-1)
	}

	if !cfg.Quiet {
		output.FormatItems(out, sess.ListVisible(view))
	}
	return exitcode.Success
}
