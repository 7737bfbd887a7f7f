package cmd

import (
	"fmt"

	"github.com/chainvue/chainvue-cli/internal/config"
	"github.com/chainvue/chainvue-cli/internal/output"
)

type ConfigCmd struct {
	Path        ConfigPathCmd        `cmd:"" help:"Show configuration paths"`
	Show        ConfigShowCmd        `cmd:"" help:"Show effective settings"`
	SetEndpoint ConfigSetEndpointCmd `cmd:"" name:"set-endpoint" help:"Set the REST or GraphQL endpoint"`
}

type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return a.fail(fmt.Errorf("resolve config dir: %w", err))
	}

	keyringDir, err := config.KeyringDir()
	if err != nil {
		return a.fail(fmt.Errorf("resolve keyring dir: %w", err))
	}

	if a.mode.JSON {
		return a.writeJSON(map[string]string{
			"configDir":  dir,
			"configFile": a.sessions.Path(),
			"keyringDir": keyringDir,
		})
	}

	a.ui.KeyValue(
		output.Field{Key: "Config dir", Value: dir},
		output.Field{Key: "Config file", Value: a.sessions.Path()},
		output.Field{Key: "Keyring dir", Value: keyringDir},
	)

	return nil
}

type configView struct {
	CurrentProfile  string `json:"currentProfile"`
	APIEndpoint     string `json:"apiEndpoint"`
	GraphQLEndpoint string `json:"graphqlEndpoint"`
	DefaultOutput   string `json:"defaultOutput"`
	Timezone        string `json:"timezone"`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	cfg, err := a.sessions.Read()
	if err != nil {
		return a.fail(err)
	}

	name, err := a.profileName()
	if err != nil {
		return a.fail(err)
	}

	apiURL, err := a.sessions.APIEndpoint()
	if err != nil {
		return a.fail(err)
	}

	graphqlURL, err := a.sessions.GraphQLEndpoint()
	if err != nil {
		return a.fail(err)
	}

	view := configView{
		CurrentProfile:  name,
		APIEndpoint:     apiURL,
		GraphQLEndpoint: graphqlURL,
		DefaultOutput:   cfg.DefaultOutput,
		Timezone:        cfg.Timezone,
	}

	if a.mode.JSON {
		return a.writeJSON(view)
	}

	a.ui.KeyValue(
		output.Field{Key: "Profile", Value: view.CurrentProfile},
		output.Field{Key: "API endpoint", Value: view.APIEndpoint},
		output.Field{Key: "GraphQL endpoint", Value: view.GraphQLEndpoint},
		output.Field{Key: "Default output", Value: view.DefaultOutput},
		output.Field{Key: "Timezone", Value: view.Timezone},
	)

	return nil
}

type ConfigSetEndpointCmd struct {
	URL     string `arg:"" name:"url" help:"Endpoint URL"`
	GraphQL bool   `name:"graphql" help:"Set the GraphQL endpoint instead of the REST base"`
}

func (c *ConfigSetEndpointCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	set, label := a.sessions.SetAPIEndpoint, "API endpoint"
	if c.GraphQL {
		set, label = a.sessions.SetGraphQLEndpoint, "GraphQL endpoint"
	}

	normalized, err := config.NormalizeEndpoint(c.URL)
	if err != nil {
		return a.usage(err.Error(), "Example: chainvue config set-endpoint https://staging.chainvue.io")
	}

	if err := set(normalized); err != nil {
		return a.fail(err)
	}

	a.ui.Success("%s set to %s", label, normalized)

	return nil
}
