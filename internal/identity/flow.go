package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/oauth2"
)

const (
	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

// Flow obtains an access token from the identity provider.
type Flow interface {
	Token(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// ErrSignInDenied is returned when the provider redirects back with an error.
var ErrSignInDenied = errors.New("sign-in denied")

// LoopbackFlow runs the installed-app authorization code flow with PKCE,
// receiving the callback on a local HTTP server.
//
// There is no callback timeout. The flow ends when the browser calls back
// or ctx is cancelled.
type LoopbackFlow struct {
	// Out receives the consent URL.
	Out io.Writer

	// OpenBrowser opens the consent URL. Defaults to browser.OpenURL.
	OpenBrowser func(url string) error

	// StartPort is the first callback port tried. Zero picks any free port.
	StartPort int
}

// NewLoopbackFlow returns a flow printing to out and opening the system browser.
func NewLoopbackFlow(out io.Writer) *LoopbackFlow {
	return &LoopbackFlow{
		Out:         out,
		OpenBrowser: browser.OpenURL,
		StartPort:   oauthStartPort,
	}
}

// Token implements Flow.
func (f *LoopbackFlow) Token(ctx context.Context, base *oauth2.Config) (*oauth2.Token, error) {
	port, listener, err := findAvailablePort(f.StartPort)
	if err != nil {
		return nil, fmt.Errorf("could not bind to local port for OAuth callback")
	}
	defer listener.Close()

	cfg := *base
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	verifier := oauth2.GenerateVerifier()
	state := oauth2.GenerateVerifier()

	// Online access only: the provider returns no refresh token
	authURL := cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			http.Error(w, "Sign-in was not completed", http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("%w: %s", ErrSignInDenied, e))
			return
		}
		if q.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("state mismatch in callback"))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("no code in callback"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Signed in</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendErr(errCh, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if f.Out != nil {
		fmt.Fprintln(f.Out, "Open this URL in your browser:")
		fmt.Fprintln(f.Out, authURL)
	}
	if f.OpenBrowser != nil {
		_ = f.OpenBrowser(authURL)
	}

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	exchangeCtx, cancelExchange := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancelExchange()

	token, err := cfg.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// findAvailablePort tries to find an available port starting from start.
func findAvailablePort(start int) (int, net.Listener, error) {
	if start == 0 {
		listener, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			return 0, nil, err
		}
		return listener.Addr().(*net.TCPAddr).Port, listener, nil
	}
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := start + i
		addr := fmt.Sprintf("localhost:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}
