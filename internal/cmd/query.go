package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/chainvue/chainvue-cli/internal/config"
	"github.com/chainvue/chainvue-cli/internal/output"
)

const queryExample = `Example: chainvue query "{ blocks(limit: 5) { height hash } }"`

type QueryCmd struct {
	Query  string `arg:"" optional:"" help:"GraphQL query string"`
	File   string `short:"f" type:"path" help:"Read the query from a file"`
	Vars   string `help:"Variables as inline JSON or a path to a JSON file (comments allowed)"`
	Pretty bool   `help:"Pretty print the JSON result"`
}

func (c *QueryCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	query, err := c.readQuery()
	if err != nil {
		return a.usage("Failed to read file: "+err.Error(), "")
	}

	if strings.TrimSpace(query) == "" {
		return a.usage("Provide a query string or use --file", queryExample)
	}

	variables, err := parseVariables(c.Vars)
	if err != nil {
		return a.usage(err.Error(), `Example: --vars '{"limit": 5}'`)
	}

	client, err := a.client()
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.GraphQL(ctx, query, variables)
	if !res.OK {
		err := res.Err()
		a.report(err, "Query failed")

		if res.Data != nil {
			fmt.Fprintln(stdout)
			_ = output.WriteRawJSON(stdout, *res.Data, true)
		}

		return &ExitError{Code: exitCodeFor(err), Err: err, Reported: true}
	}

	var data json.RawMessage
	if res.Data != nil {
		data = *res.Data
	}

	if len(bytes.TrimSpace(data)) == 0 {
		data = json.RawMessage("null")
	}

	return c.render(a, data)
}

func (c *QueryCmd) readQuery() (string, error) {
	if c.File == "" {
		return c.Query, nil
	}

	data, err := os.ReadFile(c.File) //nolint:gosec // user-provided path
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (c *QueryCmd) render(a *app, data json.RawMessage) error {
	if !c.Pretty {
		return output.WriteRawJSON(stdout, data, false)
	}

	var buf bytes.Buffer
	if err := output.WriteRawJSON(&buf, data, true); err != nil {
		return a.fail(err)
	}

	if a.mode.JSON || a.mode.Plain {
		_, err := stdout.Write(buf.Bytes())

		return err
	}

	return output.HighlightJSON(stdout, buf.String(), a.ui.Profile())
}

// parseVariables accepts an inline JSON object or a path to a file holding
// one. Comments and trailing commas are tolerated.
func parseVariables(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	src := []byte(raw)

	if !strings.HasPrefix(raw, "{") {
		path, err := config.ExpandPath(raw)
		if err != nil {
			return nil, err
		}

		src, err = os.ReadFile(path) //nolint:gosec // user-provided path
		if err != nil {
			return nil, fmt.Errorf("read variables: %w", err)
		}
	}

	var vars map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(src), &vars); err != nil {
		return nil, fmt.Errorf("invalid variables JSON: %w", err)
	}

	return vars, nil
}
