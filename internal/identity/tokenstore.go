package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

// KeyringService is the keychain service name tokens are stored under.
const KeyringService = "sidepad"

// ErrNoToken is returned by a TokenStore that holds no token.
var ErrNoToken = errors.New("no stored token")

// TokenStore persists the access token between invocations.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
	Delete() error
}

// KeyringStore keeps the token in the OS keychain.
type KeyringStore struct {
	// Account distinguishes tokens of different config directories.
	Account string
}

// Load implements TokenStore.
func (k KeyringStore) Load() (*oauth2.Token, error) {
	data, err := keyring.Get(KeyringService, k.Account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read keychain: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, fmt.Errorf("invalid stored token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrNoToken
	}
	return &token, nil
}

// Save implements TokenStore.
func (k KeyringStore) Save(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err := keyring.Set(KeyringService, k.Account, string(data)); err != nil {
		return fmt.Errorf("failed to write keychain: %w", err)
	}
	return nil
}

// Delete implements TokenStore.
func (k KeyringStore) Delete() error {
	if err := keyring.Delete(KeyringService, k.Account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNoToken
		}
		return fmt.Errorf("failed to delete keychain entry: %w", err)
	}
	return nil
}

// MemoryTokenStore holds the token for the life of the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token *oauth2.Token
}

// Load implements TokenStore.
func (m *MemoryTokenStore) Load() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil, ErrNoToken
	}
	t := *m.token
	return &t, nil
}

// Save implements TokenStore.
func (m *MemoryTokenStore) Save(token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := *token
	m.token = &t
	return nil
}

// Delete implements TokenStore.
func (m *MemoryTokenStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return ErrNoToken
	}
	m.token = nil
	return nil
}
