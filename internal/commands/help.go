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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todos help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todos                                         List all todos
  todos list [common flags] [view flags]        List todos in the view
  todos stats [common flags]                    Count todos by completion state
  todos add [common flags] <text...>            Create a todo
  todos create [common flags] <text...>
  todos done [common flags] [view flags] <ref>  Toggle a todo completed
  todos edit [common flags] [view flags] <ref> <text...>
  todos rm [common flags] [view flags] <ref>
  todos move [common flags] [view flags] <from> <to>
  todos refresh [common flags]
  todos shell [common flags] [--metrics-addr <host:port>]
  todos help
  todos version

References:
  <n>              Position in the listed view, starting at 1
  #<id>            Todo id as shown by list

View flags:
  --filter <f>     all, completed or pending (default all)
  --search <text>  Case-insensitive text match

Common flags:
  --config <dir>   Override config directory
  --base-url <url> Override the remote store
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
