package keychain

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "gymbot"

// AllowlistAccount holds the comma-separated allow-list.
const AllowlistAccount = "allowlist"

// ErrNotFound is returned when nothing is stored under an account.
var ErrNotFound = keyring.ErrNotFound

// Get retrieves a secret from the system keychain.
func Get(account string) (string, error) {
	return keyring.Get(serviceName, account)
}

// Set stores a secret in the system keychain.
func Set(account, value string) error {
	return keyring.Set(serviceName, account, value)
}

// Lookup is Get, returning "" instead of ErrNotFound.
func Lookup(account string) (string, error) {
	v, err := Get(account)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
