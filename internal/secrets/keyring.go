// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this tool's entries in the OS keychain.
const KeyringService = "outreach"

// Keyring reads secrets from the OS keychain. Each key is stored as its
// own entry under Service.
type Keyring struct {
	Service string
}

func (k Keyring) service() string {
	if k.Service == "" {
		return KeyringService
	}
	return k.Service
}

// Lookup returns the keychain entry for key. Any keychain failure,
// including an unavailable keychain, counts as a miss.
func (k Keyring) Lookup(key string) (string, bool) {
	v, err := keyring.Get(k.service(), key)
	if err != nil || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Set stores value under key.
func (k Keyring) Set(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("secret key is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	if err := keyring.Set(k.service(), key, value); err != nil {
		return fmt.Errorf("storing %s in keyring: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a key that is not stored is not an error.
func (k Keyring) Delete(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("secret key is empty")
	}
	err := keyring.Delete(k.service(), key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting %s from keyring: %w", key, err)
	}
	return nil
}
