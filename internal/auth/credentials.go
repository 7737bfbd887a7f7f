package auth

import (
	"errors"

	"golang.org/x/oauth2"
)

var ErrNotAuthenticated = errors.New("not authenticated")

const (
	MethodAPIKey  = "API Key"
	MethodSession = "Session"
)

// Credentials is the secret record stored per profile.
type Credentials struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	APIKey       string `json:"apiKey,omitempty"`
}

// Usable reports whether the record can authorize a request.
func (c Credentials) Usable() bool {
	return c.APIKey != "" || c.AccessToken != ""
}

// Bearer returns the value sent as the bearer token. An API key wins over a
// session token so CI/CD keys stay in effect after an interactive login.
func (c Credentials) Bearer() (string, bool) {
	if c.APIKey != "" {
		return c.APIKey, true
	}

	if c.AccessToken != "" {
		return c.AccessToken, true
	}

	return "", false
}

func (c Credentials) Method() string {
	if c.APIKey != "" {
		return MethodAPIKey
	}

	return MethodSession
}

// TokenSource exposes the credentials as a static bearer token source.
func (c Credentials) TokenSource() (oauth2.TokenSource, error) {
	value, ok := c.Bearer()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: value,
		TokenType:   "Bearer",
	}), nil
}

// FromToken builds session credentials from a device grant.
func FromToken(tok *oauth2.Token) Credentials {
	if tok == nil {
		return Credentials{}
	}

	return Credentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
}
