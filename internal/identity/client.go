// Package identity wraps the Google OAuth token flow and models the sign-in
// session as an explicit state value.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"sidepad/internal/config"
	"sidepad/internal/service"
)

const (
	// DriveFileScope limits access to files the app creates.
	DriveFileScope = "https://www.googleapis.com/auth/drive.file"

	// RevokeURL is Google's token revocation endpoint.
	RevokeURL = "https://oauth2.googleapis.com/revoke"

	revokeTimeout = 10 * time.Second
)

var (
	// ErrAlreadySignedIn is returned by RequestSignIn while signed in.
	ErrAlreadySignedIn = errors.New("already signed in")

	// ErrNotSignedIn is returned by SignOut while not signed in.
	ErrNotSignedIn = errors.New("not signed in")
)

// Client holds the OAuth configuration and the current session.
type Client struct {
	oauth      *oauth2.Config
	tokens     TokenStore
	flow       Flow
	revokeURL  string
	httpClient *http.Client
	log        *zap.Logger

	mu    sync.Mutex
	state State
	token *oauth2.Token
}

// Option configures a Client.
type Option func(*Client)

// WithTokenStore sets where the access token is kept. Defaults to MemoryTokenStore.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

// WithFlow sets the token flow. Defaults to a LoopbackFlow writing to stderr.
func WithFlow(f Flow) Option {
	return func(c *Client) { c.flow = f }
}

// WithRevokeURL overrides the revocation endpoint.
func WithRevokeURL(u string) Option {
	return func(c *Client) { c.revokeURL = u }
}

// WithHTTPClient sets the base HTTP client for revocation and API requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New reads oauth_client.json from the config directory and returns a
// ready client. A previously stored, unexpired token puts the client in SignedIn.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	return NewWithConfig(oauthConfig, opts...), nil
}

// NewWithConfig returns a client for an already built OAuth configuration.
func NewWithConfig(oauthConfig *oauth2.Config, opts ...Option) *Client {
	c := &Client{
		oauth:     oauthConfig,
		revokeURL: RevokeURL,
		state:     SignedOut,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.tokens == nil {
		c.tokens = &MemoryTokenStore{}
	}
	if c.flow == nil {
		c.flow = NewLoopbackFlow(os.Stderr)
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}

	c.restore()
	return c
}

func (c *Client) restore() {
	token, err := c.tokens.Load()
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			c.log.Warn("stored token unusable", zap.Error(err))
		}
		return
	}
	// The token is never refreshed, so an expired one cannot be used again
	if !token.Expiry.IsZero() && !token.Expiry.After(time.Now()) {
		c.log.Info("stored token expired", zap.Time("expiry", token.Expiry))
		if err := c.tokens.Delete(); err != nil && !errors.Is(err, ErrNoToken) {
			c.log.Warn("failed to remove expired token", zap.Error(err))
		}
		return
	}
	c.token = token
	c.state = SignedIn
	c.log.Debug("session restored")
}

// State returns the current sign-in state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RequestSignIn runs the token flow. It blocks until the provider calls back
// or ctx is cancelled. Any failure leaves the client SignedOut.
func (c *Client) RequestSignIn(ctx context.Context) error {
	c.mu.Lock()
	if c.state == SignedIn {
		c.mu.Unlock()
		return ErrAlreadySignedIn
	}
	c.state = Pending
	c.mu.Unlock()
	c.log.Debug("sign-in pending")

	token, err := c.flow.Token(ctx, c.oauth)
	if err == nil && (token == nil || token.AccessToken == "") {
		err = errors.New("provider returned no access token")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = SignedOut
		c.log.Info("sign-in not completed", zap.Error(err))
		return err
	}

	// Only the bearer credential is kept
	session := &oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Expiry:      token.Expiry,
	}
	if err := c.tokens.Save(session); err != nil {
		c.state = SignedOut
		return fmt.Errorf("failed to save token: %w", err)
	}
	c.token = session
	c.state = SignedIn
	c.log.Info("signed in")
	return nil
}

// SignOut revokes the token, forgets it and returns to SignedOut.
// A failed revocation is logged but does not keep the session alive.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != SignedIn {
		return ErrNotSignedIn
	}

	if err := c.revoke(ctx, c.token.AccessToken); err != nil {
		c.log.Warn("token revocation failed", zap.Error(err))
	}
	if err := c.tokens.Delete(); err != nil && !errors.Is(err, ErrNoToken) {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	c.token = nil
	c.state = SignedOut
	c.log.Info("signed out")
	return nil
}

// HTTPClient returns a client that authorizes requests with the bearer token.
// The token is never refreshed.
func (c *Client) HTTPClient(ctx context.Context) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != SignedIn {
		return nil, service.ErrAuthRequired
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(c.token)), nil
}

func (c *Client) revoke(ctx context.Context, accessToken string) error {
	ctx, cancel := context.WithTimeout(ctx, revokeTimeout)
	defer cancel()

	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revoke request failed: %s", resp.Status)
	}
	return nil
}
