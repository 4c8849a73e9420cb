package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/session"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips the completed flag, so
// running it on a completed todo reopens it.
type DoneCmd struct {
	viewFlags
}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle a todo completed" }
func (c *DoneCmd) Usage() string      { return "todos done [--filter <f>] [--search <text>] <ref>" }
func (c *DoneCmd) NeedsBackend() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	c.viewFlags.register(fs)
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	view, err := c.view()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	item, code := lookupRef(sess, view, args, errOut)
	if code != exitcode.Success {
		return code
	}

	p, err := sess.SubmitToggle(ctx, item.ID)
	return submitted(ctx, cfg, p, err, out, errOut)
}
