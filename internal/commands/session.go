package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"sidepad/internal/exitcode"
	"sidepad/internal/identity"
)

func init() {
	Register(&LoginCmd{})
	Register(&LogoutCmd{})
	Register(&StatusCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return []string{"signin"} }
func (c *LoginCmd) Synopsis() string  { return "Sign in with Google" }
func (c *LoginCmd) Usage() string     { return "sidepad login [common flags]" }
func (c *LoginCmd) NeedsStore() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := env.Identity(ctx)
	if errors.Is(err, ErrNoOAuthClient) {
		printOAuthSetup(errOut, env.Config.Dir)
		return exitcode.AuthError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	if id.State() == identity.SignedIn {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "already signed in")
		}
		return exitcode.Success
	}

	if err := id.RequestSignIn(ctx); err != nil {
		fmt.Fprintf(errOut, "error: sign-in not completed: %v\n", err)
		return exitcode.AuthError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "signed in")
	}
	return exitcode.Success
}

func printOAuthSetup(errOut io.Writer, dir string) {
	fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", dir)
	fmt.Fprintln(errOut, "To upload notes to Google Drive, you need OAuth credentials:")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(errOut, "2. Create a project (or select an existing one)")
	fmt.Fprintln(errOut, "3. Enable the Google Drive API:")
	fmt.Fprintln(errOut, "   https://console.cloud.google.com/apis/library/drive.googleapis.com")
	fmt.Fprintln(errOut, "4. Create OAuth 2.0 credentials:")
	fmt.Fprintln(errOut, "   - Click 'Create Credentials' > 'OAuth client ID'")
	fmt.Fprintln(errOut, "   - Choose 'Desktop app' as application type")
	fmt.Fprintln(errOut, "   - Download the JSON file")
	fmt.Fprintln(errOut, "5. Save it as:")
	fmt.Fprintf(errOut, "   %s/oauth_client.json\n", dir)
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Then run 'sidepad login' again.")
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return []string{"signout"} }
func (c *LogoutCmd) Synopsis() string  { return "Sign out and revoke the access token" }
func (c *LogoutCmd) Usage() string     { return "sidepad logout [common flags]" }
func (c *LogoutCmd) NeedsStore() bool  { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := env.Identity(ctx)
	if errors.Is(err, ErrNoOAuthClient) {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "not signed in")
		}
		return exitcode.Success
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	err = id.SignOut(ctx)
	if errors.Is(err, identity.ErrNotSignedIn) {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "not signed in")
		}
		return exitcode.Success
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "signed out")
	}
	return exitcode.Success
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show sign-in state" }
func (c *StatusCmd) Usage() string     { return "sidepad status [common flags]" }
func (c *StatusCmd) NeedsStore() bool  { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, err := env.Identity(ctx)
	if errors.Is(err, ErrNoOAuthClient) {
		fmt.Fprintln(out, identity.SignedOut)
		return exitcode.Success
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	fmt.Fprintln(out, id.State())
	return exitcode.Success
}
