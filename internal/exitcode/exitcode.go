// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty fields, bad item number).
	UserError = 1

	// AuthError indicates a missing sign-in or OAuth client configuration.
	AuthError = 2

	// BackendError indicates a Drive/API/network error.
	BackendError = 3

	// StorageError indicates the local database could not be opened or written.
	StorageError = 4
)
