package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/output"
)

type WebhooksCmd struct {
	List   WebhooksListCmd   `cmd:"" help:"List webhooks"`
	Create WebhooksCreateCmd `cmd:"" help:"Create a webhook"`
	Delete WebhooksDeleteCmd `cmd:"" help:"Delete a webhook"`
	Test   WebhooksTestCmd   `cmd:"" help:"Send a test event to a webhook"`
}

type WebhooksListCmd struct{}

func (c *WebhooksListCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.ListWebhooks(ctx)
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to fetch webhooks")
	}

	hooks := []api.Webhook{}
	if res.Data != nil && res.Data.Webhooks != nil {
		hooks = res.Data.Webhooks
	}

	if a.mode.JSON {
		return a.writeJSON(hooks)
	}

	if len(hooks) == 0 {
		a.ui.Info("No webhooks found")
		a.ui.Dim("Create one with: chainvue webhooks create --url https://...")

		return nil
	}

	ts := now()
	tbl := a.table()
	tbl.Header(output.WebhookHeaders...)

	for _, w := range hooks {
		tbl.AddRow(output.FormatWebhook(w, ts)...)
	}

	return tbl.Flush()
}

type WebhooksCreateCmd struct {
	URL         string `name:"url" required:"" help:"Endpoint URL (HTTPS)"`
	Description string `help:"Description"`
	Events      string `default:"address.received" help:"Comma-separated events"`
	Chain       string `default:"VRSCTEST" help:"Chain ID or name (VRSCTEST, Verus)"`
}

var errEmptyEvents = errors.New("at least one event is required")

// parseEvents splits a comma-separated list, dropping blanks.
func parseEvents(csv string) ([]string, error) {
	var events []string

	for _, e := range strings.Split(csv, ",") {
		if e = strings.TrimSpace(e); e != "" {
			events = append(events, e)
		}
	}

	if len(events) == 0 {
		return nil, errEmptyEvents
	}

	return events, nil
}

func (c *WebhooksCreateCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	target := strings.TrimSpace(c.URL)
	if u, err := url.Parse(target); err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return a.usage(fmt.Sprintf("Invalid webhook URL %q", c.URL), "Example: chainvue webhooks create --url https://example.com/hook")
	}

	events, err := parseEvents(c.Events)
	if err != nil {
		return a.usage("No events given", "Example: --events address.received,address.sent")
	}

	chain := c.Chain
	if strings.TrimSpace(chain) == "" {
		chain = api.DefaultChain
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.CreateWebhook(ctx, api.CreateWebhookRequest{
		URL:         target,
		Description: c.Description,
		ChainID:     api.ResolveChainID(chain),
		Events:      events,
	})
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to create webhook")
	}

	if res.Data == nil {
		return a.fail(errors.New("create webhook: empty response"))
	}

	hook := res.Data

	if a.mode.JSON {
		return a.writeJSON(hook)
	}

	a.ui.Success("Webhook created")
	fmt.Fprintln(a.ui.Out)
	a.ui.KeyValue(
		output.Field{Key: "ID", Value: hook.ID},
		output.Field{Key: "URL", Value: hook.URL},
		output.Field{Key: "Events", Value: strings.Join(hook.Events, ", ")},
		output.Field{Key: "Secret", Value: hook.Secret},
	)
	fmt.Fprintln(a.ui.Out)
	a.ui.Warn("Save this secret now! You won't be able to see it again.")

	return nil
}

type WebhooksDeleteCmd struct {
	ID string `arg:"" help:"Webhook ID"`
}

func (c *WebhooksDeleteCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.DeleteWebhook(ctx, c.ID)
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to delete webhook")
	}

	if a.mode.JSON {
		return a.writeJSON(map[string]any{"id": c.ID, "deleted": true})
	}

	a.ui.Success("Webhook deleted")

	return nil
}

type WebhooksTestCmd struct {
	ID string `arg:"" help:"Webhook ID"`
}

func (c *WebhooksTestCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.TestWebhook(ctx, c.ID)
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to send test")
	}

	if res.Data == nil {
		return a.fail(errors.New("test webhook: empty response"))
	}

	result := res.Data

	if a.mode.JSON {
		if err := a.writeJSON(result); err != nil {
			return err
		}
	} else if result.Success {
		a.ui.Success("Test delivered (%s, %sms)", optionalInt(result.ResponseCode), optionalInt(result.ResponseTime))
	} else {
		a.ui.Error("Test failed: %s", optionalString(result.ErrorMessage))
	}

	if !result.Success {
		return &ExitError{Code: exitError, Err: errors.New("webhook test failed"), Reported: true}
	}

	return nil
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}

	return fmt.Sprintf("%d", *v)
}

func optionalString(v *string) string {
	if v == nil || *v == "" {
		return "unknown error"
	}

	return *v
}
