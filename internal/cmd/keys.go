package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/output"
)

type KeysCmd struct {
	List   KeysListCmd   `cmd:"" help:"List API keys"`
	Create KeysCreateCmd `cmd:"" help:"Create an API key"`
	Revoke KeysRevokeCmd `cmd:"" help:"Revoke an API key"`
}

type KeysListCmd struct{}

func (c *KeysListCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.ListKeys(ctx)
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to fetch keys")
	}

	var keys []api.APIKey
	if res.Data != nil {
		keys = res.Data.Keys
	}

	if a.mode.JSON {
		if keys == nil {
			keys = []api.APIKey{}
		}

		return a.writeJSON(keys)
	}

	if len(keys) == 0 {
		a.ui.Info("No API keys found")
		a.ui.Dim(`Create one with: chainvue keys create --name "My Key"`)

		return nil
	}

	ts := now()
	tbl := a.table()
	tbl.Header(output.KeyHeaders...)

	for _, k := range keys {
		tbl.AddRow(output.FormatKey(k, ts)...)
	}

	return tbl.Flush()
}

type KeysCreateCmd struct {
	Name string `required:"" help:"Name for the key"`
	Type string `default:"api" enum:"api,agent" help:"Key type: api or agent"`
	Env  string `default:"test" enum:"test,live" help:"Environment: test or live"`
}

func (c *KeysCreateCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	if strings.TrimSpace(c.Name) == "" {
		return a.usage("Key name must not be empty", `Example: chainvue keys create --name "CI"`)
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.CreateKey(ctx, api.CreateKeyRequest{
		Name:        strings.TrimSpace(c.Name),
		Type:        c.Type,
		Environment: strings.ToUpper(c.Env),
	})
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to create key")
	}

	if res.Data == nil {
		return a.fail(errors.New("create key: empty response"))
	}

	key := res.Data

	if a.mode.JSON {
		return a.writeJSON(key)
	}

	a.ui.Success("API key created")
	fmt.Fprintln(a.ui.Out)
	a.ui.KeyValue(
		output.Field{Key: "Name", Value: key.Name},
		output.Field{Key: "Environment", Value: strings.ToLower(key.Environment)},
		output.Field{Key: "Key", Value: key.Key},
	)
	fmt.Fprintln(a.ui.Out)
	a.ui.Warn("Save this key now! You won't be able to see it again.")

	return nil
}

type KeysRevokeCmd struct {
	ID string `arg:"" help:"Key ID"`
}

func (c *KeysRevokeCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.RevokeKey(ctx, c.ID)
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to revoke key")
	}

	if a.mode.JSON {
		return a.writeJSON(map[string]any{"id": c.ID, "revoked": true})
	}

	a.ui.Success("API key revoked")

	return nil
}
