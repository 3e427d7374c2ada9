// Package credentials provides secure storage for the OpenAI API key used by
// the eca CLI. The key is kept in the system keyring:
//   - macOS: Keychain
//   - Windows: Credential Manager
//   - Linux: Secret Service (libsecret)
//
// The OPENAI_API_KEY environment variable always takes precedence, so CI and
// one-off runs never need the keyring.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name used in the system keyring.
	keyringService = "eca-cli"
	// keyringUser is the account name under which the API key is stored.
	keyringUser = "openai-api-key"

	// EnvAPIKey is the environment variable that overrides stored credentials.
	EnvAPIKey = "OPENAI_API_KEY"
)

// Common errors.
var (
	// ErrNoAPIKey is returned when no API key is stored or exported.
	ErrNoAPIKey = errors.New("no API key configured")
	// ErrKeyringUnavailable indicates the system keyring is not available.
	ErrKeyringUnavailable = errors.New("system keyring unavailable")
)

// Store manages API key storage operations.
type Store struct {
	service string
}

// NewStore creates a credentials store using the default keyring service name.
func NewStore() *Store {
	return &Store{service: keyringService}
}

// APIKey returns the OpenAI API key, preferring the environment variable over
// the keyring. Returns ErrNoAPIKey when neither source has a key.
func (s *Store) APIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	key, err := keyring.Get(s.service, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoAPIKey
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	if strings.TrimSpace(key) == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// SetAPIKey stores the API key in the system keyring.
func (s *Store) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key must not be empty")
	}
	if err := keyring.Set(s.service, keyringUser, key); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// DeleteAPIKey removes the stored API key. Deleting a missing key is not an error.
func (s *Store) DeleteAPIKey() error {
	err := keyring.Delete(s.service, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Source describes where the current API key comes from: "env", "keyring",
// or "none".
func (s *Store) Source() string {
	if strings.TrimSpace(os.Getenv(EnvAPIKey)) != "" {
		return "env"
	}
	if _, err := keyring.Get(s.service, keyringUser); err == nil {
		return "keyring"
	}
	return "none"
}

// Redact returns a display-safe form of an API key (first 3 and last 4
// characters visible).
func Redact(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}
