package commands

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"sidepad/internal/config"
	"sidepad/internal/identity"
	"sidepad/internal/store"
	"sidepad/internal/upload"
)

// Identity is the sign-in session the commands drive.
// It is satisfied by *identity.Client.
type Identity interface {
	State() identity.State
	RequestSignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	HTTPClient(ctx context.Context) (*http.Client, error)
}

var _ Identity = (*identity.Client)(nil)

// IdentityOpener constructs the sign-in session for a config.
type IdentityOpener func(ctx context.Context, cfg *config.Config, log *zap.Logger) (Identity, error)

// ErrNoOAuthClient indicates oauth_client.json is missing from the config dir.
var ErrNoOAuthClient = errors.New("oauth_client.json not found")

// Env carries the dependencies of a single command invocation.
type Env struct {
	Config *config.Config
	Log    *zap.Logger
	Store  store.KV
	In     io.Reader

	OpenIdentity IdentityOpener
	OpenDrive    upload.DriveOpener

	identity Identity
}

// Identity returns the sign-in session, constructing it on first use.
// It returns ErrNoOAuthClient when no client credentials are configured.
func (e *Env) Identity(ctx context.Context) (Identity, error) {
	if e.identity != nil {
		return e.identity, nil
	}
	if e.OpenIdentity == nil {
		return nil, ErrNoOAuthClient
	}
	id, err := e.OpenIdentity(ctx, e.Config, e.logger())
	if err != nil {
		return nil, err
	}
	e.identity = id
	return id, nil
}

// Uploader returns an upload client bound to the sign-in session.
func (e *Env) Uploader(ctx context.Context) (*upload.Client, error) {
	id, err := e.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return upload.New(id, e.OpenDrive, e.logger()), nil
}

func (e *Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
