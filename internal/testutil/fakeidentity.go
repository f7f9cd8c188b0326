package testutil

import (
	"context"
	"net/http"

	"sidepad/internal/identity"
	"sidepad/internal/service"
)

// FakeIdentity is a scripted sign-in session for testing.
type FakeIdentity struct {
	Current identity.State

	// SignInErr is returned by RequestSignIn; nil signs in.
	SignInErr error

	SignInCalls  int
	SignOutCalls int
}

// NewFakeIdentity creates a FakeIdentity, signed in or not.
func NewFakeIdentity(signedIn bool) *FakeIdentity {
	f := &FakeIdentity{Current: identity.SignedOut}
	if signedIn {
		f.Current = identity.SignedIn
	}
	return f
}

// State returns the current state.
func (f *FakeIdentity) State() identity.State { return f.Current }

// RequestSignIn mirrors identity.Client.RequestSignIn.
func (f *FakeIdentity) RequestSignIn(ctx context.Context) error {
	f.SignInCalls++
	if f.Current == identity.SignedIn {
		return identity.ErrAlreadySignedIn
	}
	if f.SignInErr != nil {
		f.Current = identity.SignedOut
		return f.SignInErr
	}
	f.Current = identity.SignedIn
	return nil
}

// SignOut mirrors identity.Client.SignOut.
func (f *FakeIdentity) SignOut(ctx context.Context) error {
	f.SignOutCalls++
	if f.Current != identity.SignedIn {
		return identity.ErrNotSignedIn
	}
	f.Current = identity.SignedOut
	return nil
}

// HTTPClient returns http.DefaultClient while signed in.
func (f *FakeIdentity) HTTPClient(ctx context.Context) (*http.Client, error) {
	if f.Current != identity.SignedIn {
		return nil, service.ErrAuthRequired
	}
	return http.DefaultClient, nil
}
