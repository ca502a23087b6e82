package auth

import (
	"crypto/subtle"
	"errors"
)

var (
	ErrMissingAgentKey = errors.New("agent key not provided")
	ErrInvalidAgentKey = errors.New("invalid agent key")
)

// ValidateAgentKey validates the shared secret presented by a reporting agent.
func ValidateAgentKey(key, expectedKey string) error {
	if key == "" {
		return ErrMissingAgentKey
	}

	if subtle.ConstantTimeCompare([]byte(key), []byte(expectedKey)) != 1 {
		return ErrInvalidAgentKey
	}

	return nil
}
