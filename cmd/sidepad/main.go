// Package main is the entry point for the sidepad CLI.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"sidepad/internal/backend/googledrive"
	"sidepad/internal/cli"
	"sidepad/internal/commands"
	"sidepad/internal/config"
	"sidepad/internal/identity"
	"sidepad/internal/service"
)

func main() {
	// Cancel on interrupt; this is also how a pending sign-in is abandoned
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends := cli.Backends{
		OpenStore:    cli.BoltStore,
		OpenIdentity: openIdentity,
		OpenDrive:    openDrive,
		In:           os.Stdin,
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backends)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// openIdentity builds the Google sign-in session. The access token is kept
// in the OS keychain under the config directory, so separate --config
// directories hold separate sessions.
func openIdentity(ctx context.Context, cfg *config.Config, log *zap.Logger) (commands.Identity, error) {
	if !cfg.HasOAuthClient() {
		return nil, commands.ErrNoOAuthClient
	}
	client, err := identity.New(ctx, cfg,
		identity.WithTokenStore(identity.KeyringStore{Account: cfg.Dir}),
		identity.WithFlow(identity.NewLoopbackFlow(os.Stderr)),
		identity.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func openDrive(ctx context.Context, httpClient *http.Client) (service.Drive, error) {
	d, err := googledrive.New(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	return d, nil
}
