package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/observability"
	"todos/internal/session"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the shell command: one session, many commands.
// Mutations and local ordering persist across lines until the shell exits.
type ShellCmd struct {
	metricsAddr string
	in          io.Reader
	registry    *Registry
}

// SetInput sets the command source (for testing). Defaults to stdin.
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

// SetRegistry sets the registry commands are looked up in (for testing).
func (c *ShellCmd) SetRegistry(r *Registry) {
	c.registry = r
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Aliases() []string  { return nil }
func (c *ShellCmd) Synopsis() string   { return "Run commands against one session" }
func (c *ShellCmd) Usage() string      { return "todos shell [--metrics-addr <host:port>]" }
func (c *ShellCmd) NeedsBackend() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.metricsAddr, "metrics-addr", "", "")
}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if c.metricsAddr != "" {
		stop, err := serveMetrics(c.metricsAddr)
		if err != nil {
			fmt.Fprintf(errOut, "error: metrics listener: %v\n", err)
			return exitcode.UserError
		}
		defer stop()
	}
	defer sess.Wait()

	in := c.in
	if in == nil {
		in = os.Stdin
	}
	registry := c.registry
	if registry == nil {
		registry = DefaultRegistry
	}

	scanner := bufio.NewScanner(in)
	for {
		if !cfg.Quiet {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			break
		}

		c.runLine(ctx, registry, cfg, sess, fields, out, errOut)
		if ctx.Err() != nil {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: reading input: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// runLine runs one shell line. Errors are printed and the shell continues.
func (c *ShellCmd) runLine(ctx context.Context, registry *Registry, cfg *config.Config, sess *session.Session, fields []string, out, errOut io.Writer) int {
	cmd, ok := registry.Find(fields[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", fields[0])
		return exitcode.UserError
	}
	if cmd.Name() == c.Name() {
		fmt.Fprintln(errOut, "error: already in a shell")
		return exitcode.UserError
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(fields[1:]); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var s *session.Session
	if cmd.NeedsBackend() {
		s = sess
	}
	return cmd.Run(ctx, cfg, s, fs.Args(), out, errOut)
}

// serveMetrics exposes /metrics on addr until stop is called.
func serveMetrics(addr string) (stop func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "error: metrics server: %v\n", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
