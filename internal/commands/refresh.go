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
	Register(&RefreshCmd{})
}

// RefreshCmd implements the refresh command. It replaces the local
// collection with the remote one, discarding local ordering.
type RefreshCmd struct{}

func (c *RefreshCmd) Name() string       { return "refresh" }
func (c *RefreshCmd) Aliases() []string  { return []string{"reload"} }
func (c *RefreshCmd) Synopsis() string   { return "Fetch todos from the remote store again" }
func (c *RefreshCmd) Usage() string      { return "todos refresh" }
func (c *RefreshCmd) NeedsBackend() bool { return true }

func (c *RefreshCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RefreshCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if err := sess.Load(ctx); err != nil {
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
