package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
)

const (
	EnvLive = "live"
	EnvTest = "test"

	profileEnv         = "CHAINVUE_PROFILE"
	apiEndpointEnv     = "CHAINVUE_API_ENDPOINT"
	graphQLEndpointEnv = "CHAINVUE_GRAPHQL_ENDPOINT"
)

var (
	ErrProfileNotFound = errors.New("profile not found")

	errInvalidProfileName = errors.New("invalid profile name")
	errInvalidEndpoint    = errors.New("invalid endpoint")
)

// Profile is the non-secret session metadata stored per profile name.
type Profile struct {
	OrgID       string `yaml:"org_id" json:"orgId"`
	OrgName     string `yaml:"org_name" json:"orgName"`
	Email       string `yaml:"email" json:"email"`
	UserID      string `yaml:"user_id,omitempty" json:"userId,omitempty"`
	Environment string `yaml:"environment" json:"environment"`
}

// NormalizeProfileName validates and normalizes a profile name.
func NormalizeProfileName(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", fmt.Errorf("%w: empty", errInvalidProfileName)
	}

	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}

		return "", fmt.Errorf("%w: %q", errInvalidProfileName, raw)
	}

	return name, nil
}

// ResolveProfileName picks the profile a command acts on.
// Resolution order: flag → env (CHAINVUE_PROFILE) → current pointer → "default"
func (s *Store) ResolveProfileName(flagProfile string) (string, error) {
	if strings.TrimSpace(flagProfile) != "" {
		return NormalizeProfileName(flagProfile)
	}

	if envProfile := os.Getenv(profileEnv); strings.TrimSpace(envProfile) != "" {
		return NormalizeProfileName(envProfile)
	}

	cfg, err := s.Read()
	if err != nil {
		return "", err
	}

	if cfg.CurrentProfile != "" {
		return cfg.CurrentProfile, nil
	}

	return DefaultProfileName, nil
}

// CurrentProfile returns the profile referenced by the current pointer,
// or nil when the pointer is unset or dangling.
func (s *Store) CurrentProfile() (string, *Profile, error) {
	return s.Active("")
}

// Active returns the named profile, falling back to the current pointer
// when override is empty. The profile is nil if it does not exist.
func (s *Store) Active(override string) (string, *Profile, error) {
	cfg, err := s.Read()
	if err != nil {
		return "", nil, err
	}

	name := strings.TrimSpace(override)
	if name == "" {
		name = cfg.CurrentProfile
	}

	if name == "" {
		name = DefaultProfileName
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return name, nil, nil
	}

	return name, &p, nil
}

// SetCurrentProfile stores p under name and points the current pointer at it.
func (s *Store) SetCurrentProfile(name string, p Profile) error {
	normalized, err := NormalizeProfileName(name)
	if err != nil {
		return err
	}

	cfg, err := s.Read()
	if err != nil {
		return err
	}

	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}

	cfg.Profiles[normalized] = p
	cfg.CurrentProfile = normalized

	return s.Write(cfg)
}

// UpdateProfile replaces an existing profile without moving the current pointer.
func (s *Store) UpdateProfile(name string, p Profile) error {
	cfg, err := s.Read()
	if err != nil {
		return err
	}

	if _, ok := cfg.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	cfg.Profiles[name] = p

	return s.Write(cfg)
}

// DeleteProfile removes a profile. If it was current, the pointer moves to
// the first remaining profile by name, or to "default" when none remain.
func (s *Store) DeleteProfile(name string) (bool, error) {
	cfg, err := s.Read()
	if err != nil {
		return false, err
	}

	if _, ok := cfg.Profiles[name]; !ok {
		return false, nil
	}

	delete(cfg.Profiles, name)

	if cfg.CurrentProfile == name || cfg.CurrentProfile == "" {
		cfg.CurrentProfile = DefaultProfileName

		if remaining := sortedNames(cfg.Profiles); len(remaining) > 0 {
			cfg.CurrentProfile = remaining[0]
		}
	}

	return true, s.Write(cfg)
}

// UseProfile moves the current pointer to an existing profile.
func (s *Store) UseProfile(name string) error {
	normalized, err := NormalizeProfileName(name)
	if err != nil {
		return err
	}

	cfg, err := s.Read()
	if err != nil {
		return err
	}

	if _, ok := cfg.Profiles[normalized]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, normalized)
	}

	cfg.CurrentProfile = normalized

	return s.Write(cfg)
}

// Profiles returns a copy of all stored profiles.
func (s *Store) Profiles() (map[string]Profile, error) {
	cfg, err := s.Read()
	if err != nil {
		return nil, err
	}

	out := make(map[string]Profile, len(cfg.Profiles))
	for k, v := range cfg.Profiles {
		out[k] = v
	}

	return out, nil
}

// ProfileNames returns stored profile names in lexical order.
func (s *Store) ProfileNames() ([]string, error) {
	cfg, err := s.Read()
	if err != nil {
		return nil, err
	}

	return sortedNames(cfg.Profiles), nil
}

// APIEndpoint resolves the REST base URL.
// Resolution order: env (CHAINVUE_API_ENDPOINT) → config → default
func (s *Store) APIEndpoint() (string, error) {
	return s.endpoint(apiEndpointEnv, func(f File) string { return f.APIEndpoint }, DefaultAPIEndpoint)
}

// GraphQLEndpoint resolves the GraphQL URL, which is served by a separate backend.
func (s *Store) GraphQLEndpoint() (string, error) {
	return s.endpoint(graphQLEndpointEnv, func(f File) string { return f.GraphQLEndpoint }, DefaultGraphQLEndpoint)
}

func (s *Store) endpoint(env string, fromFile func(File) string, fallback string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return strings.TrimRight(v, "/"), nil
	}

	cfg, err := s.Read()
	if err != nil {
		return "", err
	}

	if v := strings.TrimSpace(fromFile(cfg)); v != "" {
		return strings.TrimRight(v, "/"), nil
	}

	return fallback, nil
}

func (s *Store) SetAPIEndpoint(raw string) error {
	endpoint, err := NormalizeEndpoint(raw)
	if err != nil {
		return err
	}

	cfg, err := s.Read()
	if err != nil {
		return err
	}

	cfg.APIEndpoint = endpoint

	return s.Write(cfg)
}

func (s *Store) SetGraphQLEndpoint(raw string) error {
	endpoint, err := NormalizeEndpoint(raw)
	if err != nil {
		return err
	}

	cfg, err := s.Read()
	if err != nil {
		return err
	}

	cfg.GraphQLEndpoint = endpoint

	return s.Write(cfg)
}

// NormalizeEndpoint validates an absolute http(s) URL and strips trailing slashes.
func NormalizeEndpoint(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidEndpoint, err)
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", fmt.Errorf("%w: %q must use http or https", errInvalidEndpoint, raw)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", errInvalidEndpoint, raw)
	}

	return strings.TrimRight(trimmed, "/"), nil
}

func sortedNames(profiles map[string]Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
