package api

import (
	"errors"
	"strings"
)

var errInvalidID = errors.New("invalid resource ID")

// SanitizeID validates that an ID is safe to embed in a URL path.
func SanitizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errInvalidID
	}

	if strings.Contains(id, "..") {
		return "", errInvalidID
	}

	for _, r := range id {
		switch {
		case r <= ' ', r == 0x7f:
			return "", errInvalidID
		case strings.ContainsRune(`/\?#%`, r):
			return "", errInvalidID
		}
	}

	return id, nil
}
