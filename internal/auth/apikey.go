package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chainvue/chainvue-cli/internal/config"
)

var ErrInvalidAPIKey = errors.New("invalid API key format")

// KeyPrefixes maps API key prefixes to the key type they identify.
var KeyPrefixes = map[string]string{
	"cv_api_":   "api",
	"cv_agent_": "agent",
}

const liveMarker = "_live_"

// KeyType returns the key type for a recognized prefix, or "" otherwise.
func KeyType(key string) string {
	for prefix, typ := range KeyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return typ
		}
	}

	return ""
}

// ValidateAPIKey checks the local prefix convention. It never contacts the server.
func ValidateAPIKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if KeyType(key) == "" {
		return "", fmt.Errorf("%w: API keys should start with cv_api_ or cv_agent_", ErrInvalidAPIKey)
	}

	return key, nil
}

// EnvironmentFromKey infers the environment from the live marker in the key.
func EnvironmentFromKey(key string) string {
	if strings.Contains(key, liveMarker) {
		return config.EnvLive
	}

	return config.EnvTest
}
