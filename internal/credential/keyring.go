// Package credential stores the IMAP application password and the
// summarization API key in the system keyring, with an environment
// variable override for headless deployments.
package credential

import (
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "mailsift"

// Well-known credential keys.
const (
	KeyIMAPPassword = "imap-password"
	KeySummaryAPI   = "summary-api-key"
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
		FileDir:                  "~/.config/mailsift/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("mailsift-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// envName maps a credential key to its environment override, e.g.
// "imap-password" becomes MAILSIFT_IMAP_PASSWORD.
func envName(key string) string {
	return "MAILSIFT_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Get retrieves a credential value by key. An environment override
// wins over the keyring, so containers need no keyring backend at all.
func Get(key string) (string, error) {
	if v := os.Getenv(envName(key)); v != "" {
		return v, nil
	}

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
