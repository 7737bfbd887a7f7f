package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/config"
)

const (
	placeholderOrgID   = "unknown"
	placeholderOrgName = "API Key Auth"
	placeholderEmail   = "api-key"
)

var ErrKeyRejected = errors.New("API key rejected")

// Identifier resolves the identity behind a bearer token.
type Identifier interface {
	Me(ctx context.Context, opts ...api.RequestOption) api.Result[api.Identity]
}

// APIKeyLogin stores an API key as the credentials of a profile after
// checking its format locally and validating it against the server.
type APIKeyLogin struct {
	API         Identifier
	Credentials auth.Store
	Sessions    ProfileWriter
	Profile     string
	Logger      *zap.Logger
}

func (l *APIKeyLogin) Run(ctx context.Context, rawKey string) (*Outcome, error) {
	key, err := auth.ValidateAPIKey(rawKey)
	if err != nil {
		return nil, err
	}

	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	name := l.Profile
	if name == "" {
		name = config.DefaultProfileName
	}

	res := l.API.Me(ctx, api.WithBearer(key))

	var (
		profile  config.Profile
		user     api.User
		verified bool
	)

	switch {
	case res.OK && res.Data != nil:
		profile = ProfileFromIdentity(*res.Data, key)
		user = res.Data.User
		verified = true
	case res.OK, res.Status == http.StatusNotFound:
		logger.Debug("identity endpoint unavailable, using placeholder profile", zap.Int("status", res.Status))

		profile = PlaceholderProfile(key)
	case res.Status == http.StatusUnauthorized || res.Status == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrKeyRejected, res.Error)
	default:
		return nil, res.Err()
	}

	if err := persist(l.Credentials, l.Sessions, name, auth.Credentials{APIKey: key}, profile); err != nil {
		return nil, err
	}

	return &Outcome{
		ProfileName: name,
		Profile:     profile,
		User:        user,
		Verified:    verified,
	}, nil
}

// PlaceholderProfile is stored when the server cannot describe the key.
func PlaceholderProfile(key string) config.Profile {
	return config.Profile{
		OrgID:       placeholderOrgID,
		OrgName:     placeholderOrgName,
		Email:       placeholderEmail,
		Environment: auth.EnvironmentFromKey(key),
	}
}

func ProfileFromIdentity(id api.Identity, key string) config.Profile {
	p := PlaceholderProfile(key)

	if id.Organization != nil && id.Organization.ID != "" {
		p.OrgID = id.Organization.ID
		p.OrgName = id.Organization.Name
	}

	if id.User.Email != "" {
		p.Email = id.User.Email
	}

	p.UserID = id.User.ID

	switch env := strings.ToLower(id.Environment); env {
	case config.EnvLive, config.EnvTest:
		p.Environment = env
	}

	return p
}
