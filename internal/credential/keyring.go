// Package credential stores API tokens in the OS keyring (macOS
// Keychain, Secret Service, Windows Credential Manager), falling back
// to an encrypted file backend.
package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "fastmail-tui"

// Well-known credential keys.
const (
	KeyFastmailToken = "fastmail-token"
	KeyClaudeAPIKey  = "claude-api-key"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/fastmail-tui/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("fastmail-tui-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// FastmailToken returns the stored Fastmail API token, or "" when the
// keyring has no entry.
func FastmailToken() string {
	token, err := Get(KeyFastmailToken)
	if err != nil {
		return ""
	}
	return token
}

// ClaudeAPIKey returns the stored Claude API key, or "".
func ClaudeAPIKey() string {
	key, err := Get(KeyClaudeAPIKey)
	if err != nil {
		return ""
	}
	return key
}

// HasFastmailCredentials reports whether a Fastmail token is stored.
func HasFastmailCredentials() bool {
	return FastmailToken() != ""
}

// DeleteAll removes every credential this application stores. Used by
// the clear-credentials command; missing entries are not an error.
func DeleteAll() {
	_ = Delete(KeyFastmailToken)
	_ = Delete(KeyClaudeAPIKey)
}
