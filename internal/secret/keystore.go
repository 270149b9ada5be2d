// Package secret stores provider API keys in the OS keychain so they never
// land in the config file.
package secret

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringService = "recall"

// NameAPIKey is the secret name under which the active provider's API key
// is stored.
const NameAPIKey = "llm_api_key"

// Set stores a secret in the OS keyring.
func Set(name, value string) error {
	return keyring.Set(keyringService, name, value)
}

// Get retrieves a secret. A missing secret returns an empty string, not an
// error; local endpoints need no key.
func Get(name string) (string, error) {
	val, err := keyring.Get(keyringService, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return val, err
}

// Delete removes a secret. Deleting a missing secret is not an error.
func Delete(name string) error {
	err := keyring.Delete(keyringService, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// MaskKey returns a masked version of an API key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}
