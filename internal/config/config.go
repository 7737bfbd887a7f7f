package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultProfileName     = "default"
	DefaultAPIEndpoint     = "https://chainvue.io"
	DefaultGraphQLEndpoint = "https://api.chainvue.io/graphql"
)

type File struct {
	CurrentProfile  string             `yaml:"current_profile,omitempty"`
	Profiles        map[string]Profile `yaml:"profiles,omitempty"`
	APIEndpoint     string             `yaml:"api_endpoint,omitempty"`
	GraphQLEndpoint string             `yaml:"graphql_endpoint,omitempty"`
	DefaultOutput   string             `yaml:"default_output,omitempty"`
	Timezone        string             `yaml:"timezone,omitempty"`
}

// Store reads and writes the session file at a fixed path.
type Store struct {
	path string
}

// Open returns a Store for the default config path.
func Open() (*Store, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	return &Store{path: path}, nil
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Exists() (bool, error) {
	if _, statErr := os.Stat(s.path); statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}

		return false, fmt.Errorf("stat config: %w", statErr)
	}

	return true, nil
}

func (s *Store) Read() (File, error) {
	b, err := os.ReadFile(s.path) //nolint:gosec // config file path
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}

		return File{}, fmt.Errorf("read config: %w", err)
	}

	var cfg File
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", s.path, err)
	}

	return cfg, nil
}

func (s *Store) Write(cfg File) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config yaml: %w", err)
	}

	tmp := s.path + ".tmp"

	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit config: %w", err)
	}

	return nil
}

func ReadConfig() (File, error) {
	s, err := Open()
	if err != nil {
		return File{}, err
	}

	return s.Read()
}

func WriteConfig(cfg File) error {
	s, err := Open()
	if err != nil {
		return err
	}

	return s.Write(cfg)
}
