package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"todos/internal/cli"
	"todos/internal/commands"
	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
	"todos/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (service.Service, error) {
		return svc, nil
	}
}

// run dispatches args with an isolated config directory.
func run(t *testing.T, svc *testutil.FakeService, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv(config.EnvBaseURL, "")

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var outBuf, errBuf bytes.Buffer
	if len(args) > 0 {
		args = append(args[:1:1], append([]string{"--config", t.TempDir()}, args[1:]...)...)
	}
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeService(), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpDoesNotFetch(t *testing.T) {
	svc := testutil.NewFakeService()
	stdout, stderr, code := run(t, svc, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
	if svc.Calls("fetch") != 0 {
		t.Error("help must not contact the remote store")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, _, code := run(t, testutil.NewFakeService(), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "todos 0.1.0\n" {
		t.Errorf("expected 'todos 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvBaseURL, "")

	svc := testutil.NewFakeService()
	svc.AddItem(7, "Feed cat", false)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr.String())
	}
	if stdout.String() != "   1  [ ] Feed cat  #7\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestDispatcher_AddLoadsThenMutates(t *testing.T) {
	svc := testutil.NewFakeService()
	stdout, stderr, code := run(t, svc, "add", "buy", "milk")

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if svc.Calls("fetch") != 1 || svc.Calls("create") != 1 {
		t.Errorf("expected one fetch and one create, got %d and %d", svc.Calls("fetch"), svc.Calls("create"))
	}
}

func TestDispatcher_FetchFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.FetchErr = testutil.TransportErr("fetch", 503)

	_, stderr, code := run(t, svc, "list")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	// The rollback warning is logged to stderr ahead of the error line.
	if !strings.Contains(stderr, "error: backend error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FactoryFailure(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")
	factory := func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (service.Service, error) {
		return nil, errors.New("boom")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", t.TempDir()}, &stdout, &stderr)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr.String() != "error: backend error: boom\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_ConfigError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("base_url = [broken"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvBaseURL, "")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", dir}, &stdout, &stderr)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr.String(), "error: config parse failed") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_InvalidBaseURL(t *testing.T) {
	_, _, code := run(t, testutil.NewFakeService(), "list", "--base-url", "not a url")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
}

func TestDispatcher_FactoryReceivesConfig(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")
	var got *config.Config
	factory := func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (service.Service, error) {
		got = cfg
		return testutil.NewFakeService(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	args := []string{"stats", "--config", t.TempDir(), "--base-url", "http://localhost:9999/", "--quiet"}
	if code := dispatcher.Run(context.Background(), args, &stdout, &stderr); code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr.String())
	}
	if got.BaseURL != "http://localhost:9999" || !got.Quiet {
		t.Errorf("unexpected config %+v", got)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeService(), "stats", "--debug")

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stderr, "session loaded") {
		t.Errorf("expected debug log, got %q", stderr)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeService(), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--filter"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -filter\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}
