// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid text, unknown item).
	UserError = 1

	// ConfigError indicates an unreadable config file or an invalid base URL.
	ConfigError = 2

	// BackendError indicates a remote store or network error. Any optimistic
	// change has been rolled back by the time it is reported.
	BackendError = 3
)
